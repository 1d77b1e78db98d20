// Package uvatlas maps an unwrapped building envelope onto a single
// rectangular wall texture plus a small roof region.
package uvatlas

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/cityforge/meshgen/internal/mesh"
)

// MinTextureDim is the pixel floor guarding degenerate footprints against
// unusable zero-sized textures.
const MinTextureDim = 16

// DefaultTexelDensity is texture pixels per meter when none is configured.
const DefaultTexelDensity = 512.0

// Atlas holds the pixel dimensions and UV tables derived once per feature
// from perimeter, height, and texel density.
type Atlas struct {
	WallWidth  int
	WallHeight int
	RoofWidth  int
	RoofHeight int
	WallUVs    []mesh.UV
	RoofUVs    []mesh.UV
}

// Generator computes UV atlases at a fixed texel density.
type Generator struct {
	texelDensity float64
}

// NewGenerator returns a Generator; non-positive density falls back to
// DefaultTexelDensity.
func NewGenerator(texelDensity float64) *Generator {
	if texelDensity <= 0 {
		texelDensity = DefaultTexelDensity
	}
	return &Generator{texelDensity: texelDensity}
}

// WallStripDimensions returns the wall texture pixel size for a footprint
// perimeter and building height, both in meters.
func (g *Generator) WallStripDimensions(perimeter, height float64) (int, int) {
	w := int(perimeter * g.texelDensity)
	h := int(height * g.texelDensity)
	if w < MinTextureDim {
		w = MinTextureDim
	}
	if h < MinTextureDim {
		h = MinTextureDim
	}
	return w, h
}

// MapWallUVs walks the exterior ring once and assigns each edge a UV quad
// spanning U proportional to its share of the perimeter, V in [0,1]. Roof
// faces collapse onto the atlas center. A zero-perimeter ring propagates as
// a degenerate polygon since cumulative length cannot be normalized.
func (g *Generator) MapWallUVs(poly orb.Polygon, m *mesh.Mesh) (*Atlas, error) {
	if len(poly) == 0 {
		return nil, mesh.ErrDegeneratePolygon
	}
	ring := poly[0]

	lengths := make([]float64, 0, len(ring))
	perimeter := 0.0
	for i := 0; i < len(ring)-1; i++ {
		l := math.Hypot(ring[i+1][0]-ring[i][0], ring[i+1][1]-ring[i][1])
		lengths = append(lengths, l)
		perimeter += l
	}
	if perimeter <= 0 {
		return nil, mesh.ErrDegeneratePolygon
	}

	height := m.Height()
	wallW, wallH := g.WallStripDimensions(perimeter, height)

	wallUVs := make([]mesh.UV, 0, len(lengths)*4)
	cumulative := 0.0
	for _, l := range lengths {
		u0 := cumulative / perimeter
		u1 := (cumulative + l) / perimeter
		cumulative += l
		wallUVs = append(wallUVs,
			mesh.UV{u0, 0},
			mesh.UV{u1, 0},
			mesh.UV{u1, 1},
			mesh.UV{u0, 1},
		)
	}

	// Three collapsed UVs per roof face, nothing unused.
	roofFaces := 0
	for _, label := range m.FaceLabels {
		if label == mesh.RoofLabel {
			roofFaces++
		}
	}
	roofUVs := make([]mesh.UV, 3*roofFaces)
	for i := range roofUVs {
		roofUVs[i] = mesh.UV{0.5, 0.5}
	}

	return &Atlas{
		WallWidth:  wallW,
		WallHeight: wallH,
		RoofWidth:  max(wallW/2, MinTextureDim),
		RoofHeight: max(wallH/2, MinTextureDim),
		WallUVs:    wallUVs,
		RoofUVs:    roofUVs,
	}, nil
}

// Annotate rewrites the mesh UV table and per-face UV triples to align with
// face labels. Wall quad i owns UV slots [4i, 4i+4): its first triangle
// takes (4i, 4i+1, 4i+2), the second (4i, 4i+2, 4i+3). Roof face j owns the
// three slots starting at len(wallUVs)+3j. The pass is idempotent: repeated
// annotation with the same atlas yields identical indices.
func (g *Generator) Annotate(m *mesh.Mesh, atlas *Atlas) error {
	uvs := make([]mesh.UV, 0, len(atlas.WallUVs)+len(atlas.RoofUVs))
	uvs = append(uvs, atlas.WallUVs...)
	uvs = append(uvs, atlas.RoofUVs...)
	m.UVs = uvs

	m.UVIndices = make([]mesh.Triangle, 0, len(m.Faces))
	wallFaceCounts := make(map[int]int)
	roofOffset := len(atlas.WallUVs)
	roofCursor := 0

	for _, label := range m.FaceLabels {
		if edge, ok := mesh.WallEdge(label); ok {
			base := edge * 4
			var tri mesh.Triangle
			if wallFaceCounts[edge] == 0 {
				tri = mesh.Triangle{base, base + 1, base + 2}
			} else {
				tri = mesh.Triangle{base, base + 2, base + 3}
			}
			wallFaceCounts[edge]++
			m.UVIndices = append(m.UVIndices, tri)
		} else {
			m.UVIndices = append(m.UVIndices, mesh.Triangle{
				roofOffset + roofCursor,
				roofOffset + roofCursor + 1,
				roofOffset + roofCursor + 2,
			})
			roofCursor += 3
		}
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("UV annotation broke mesh invariants: %w", err)
	}
	return nil
}
