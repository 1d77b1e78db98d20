// Package mesh builds extruded building meshes from planar footprints.
package mesh

import (
	"fmt"
	"strings"
)

// RoofLabel marks roof-cap faces.
const RoofLabel = "roof"

// WallLabel returns the face label for the given exterior edge index.
func WallLabel(edge int) string {
	return fmt.Sprintf("wall_%d", edge)
}

// WallEdge parses the edge index out of a wall face label. The second return
// is false for roof or unknown labels.
func WallEdge(label string) (int, bool) {
	rest, ok := strings.CutPrefix(label, "wall_")
	if !ok {
		return 0, false
	}
	var edge int
	if _, err := fmt.Sscanf(rest, "%d", &edge); err != nil {
		return 0, false
	}
	return edge, true
}

// Vertex is a 3-D position in local planar meters.
type Vertex [3]float64

// Triangle holds three indices into a vertex or UV table.
type Triangle [3]int

// UV is a 2-D texture-space coordinate.
type UV [2]float64

// Mesh is an indexed triangle mesh with per-face labels and per-face UV
// index triples. Vertices and UVs are appended during construction; once a
// mesh is handed to the exporter it is treated as immutable.
type Mesh struct {
	Vertices   []Vertex
	Faces      []Triangle
	FaceLabels []string
	UVs        []UV
	UVIndices  []Triangle
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(x, y, z float64) int {
	m.Vertices = append(m.Vertices, Vertex{x, y, z})
	return len(m.Vertices) - 1
}

// Validate checks the structural invariants: parallel face/label/UV-triple
// lengths and in-bounds vertex and UV indices.
func (m *Mesh) Validate() error {
	if len(m.Faces) != len(m.FaceLabels) {
		return fmt.Errorf("mesh has %d faces but %d labels", len(m.Faces), len(m.FaceLabels))
	}
	if len(m.Faces) != len(m.UVIndices) {
		return fmt.Errorf("mesh has %d faces but %d UV triples", len(m.Faces), len(m.UVIndices))
	}
	for i, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(m.Vertices) {
				return fmt.Errorf("face %d references vertex %d of %d", i, vi, len(m.Vertices))
			}
		}
	}
	for i, t := range m.UVIndices {
		for _, ui := range t {
			if ui < 0 || ui >= len(m.UVs) {
				return fmt.Errorf("face %d references UV %d of %d", i, ui, len(m.UVs))
			}
		}
	}
	return nil
}

// Height returns the maximum vertex z.
func (m *Mesh) Height() float64 {
	var h float64
	for _, v := range m.Vertices {
		if v[2] > h {
			h = v[2]
		}
	}
	return h
}

// PlanarExtents returns the horizontal bounding-box dimensions, larger first.
func (m *Mesh) PlanarExtents() (maxExtent, minExtent float64) {
	if len(m.Vertices) == 0 {
		return 0, 0
	}
	minX, maxX := m.Vertices[0][0], m.Vertices[0][0]
	minY, maxY := m.Vertices[0][1], m.Vertices[0][1]
	for _, v := range m.Vertices[1:] {
		if v[0] < minX {
			minX = v[0]
		}
		if v[0] > maxX {
			maxX = v[0]
		}
		if v[1] < minY {
			minY = v[1]
		}
		if v[1] > maxY {
			maxY = v[1]
		}
	}
	w, l := maxX-minX, maxY-minY
	if w >= l {
		return w, l
	}
	return l, w
}
