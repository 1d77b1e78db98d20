// Package export writes binary glTF assets from building meshes.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/cityforge/meshgen/internal/mesh"
)

// Export errors.
var (
	ErrExportFailure    = errors.New("export failed")
	ErrMissingBaseColor = errors.New("export requires a baseColor texture")
)

// WriteGLB flattens the face-indexed mesh into per-corner position and
// texture-coordinate streams and writes a binary glTF asset with the
// baseColor texture embedded. The textures mapping is keyed by channel name;
// baseColor is mandatory.
func WriteGLB(m *mesh.Mesh, textures map[string]string, outputPath string) error {
	baseColor, ok := textures["baseColor"]
	if !ok || baseColor == "" {
		return ErrMissingBaseColor
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}

	// Each face corner carries its own UV, so positions are unshared in the
	// exported stream just as wall quads are unshared in the mesh.
	positions := make([][3]float32, 0, len(m.Faces)*3)
	texcoords := make([][2]float32, 0, len(m.Faces)*3)
	indices := make([]uint32, 0, len(m.Faces)*3)
	for fi, face := range m.Faces {
		uvTri := m.UVIndices[fi]
		for c := 0; c < 3; c++ {
			v := m.Vertices[face[c]]
			uv := m.UVs[uvTri[c]]
			positions = append(positions, [3]float32{float32(v[0]), float32(v[1]), float32(v[2])})
			// glTF texture space has V growing downward.
			texcoords = append(texcoords, [2]float32{float32(uv[0]), float32(1 - uv[1])})
			indices = append(indices, uint32(len(indices)))
		}
	}

	doc := gltf.NewDocument()

	baseIdx, err := embedTexture(doc, "baseColor", baseColor)
	if err != nil {
		return err
	}
	material := &gltf.Material{
		Name: "facade",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: baseIdx},
		},
	}
	if path := textures["roughness"]; path != "" {
		idx, err := embedTexture(doc, "roughness", path)
		if err != nil {
			return err
		}
		material.PBRMetallicRoughness.MetallicRoughnessTexture = &gltf.TextureInfo{Index: idx}
	}
	if path := textures["normal"]; path != "" {
		idx, err := embedTexture(doc, "normal", path)
		if err != nil {
			return err
		}
		material.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(idx)}
	}
	doc.Materials = append(doc.Materials, material)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "building",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]uint32{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, texcoords),
			},
			Material: gltf.Index(uint32(len(doc.Materials) - 1)),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "building", Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	if err := gltf.SaveBinary(doc, outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return nil
}

// embedTexture reads one channel image and appends it as an embedded glTF
// texture, returning the texture index.
func embedTexture(doc *gltf.Document, name, path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: opening %s: %v", ErrExportFailure, name, err)
	}
	defer f.Close()

	imgIdx, err := modeler.WriteImage(doc, name, "image/png", f)
	if err != nil {
		return 0, fmt.Errorf("%w: embedding %s: %v", ErrExportFailure, name, err)
	}
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(imgIdx)})
	return uint32(len(doc.Textures) - 1), nil
}
