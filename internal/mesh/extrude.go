package mesh

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/cityforge/meshgen/internal/geometry"
)

// ErrDegeneratePolygon reports a footprint with fewer than three distinct
// exterior points. Extrusion never attempts repair.
var ErrDegeneratePolygon = errors.New("polygon has fewer than 3 distinct exterior points")

// Extrude raises a planar footprint into a closed building mesh: one quad of
// two triangles per exterior edge, labeled wall_<edge>, plus a roof cap
// fan-triangulated from the first ring vertex. Wall quads share no vertices
// with their neighbours; each edge owns its four corners so UV seams stay
// per-edge. The UVs written here are provisional and are rewritten by the
// atlas annotation pass.
func Extrude(poly orb.Polygon, props geometry.BuildingProperties) (*Mesh, error) {
	if len(poly) == 0 {
		return nil, ErrDegeneratePolygon
	}

	ring := closedRing(poly[0])
	if distinctPoints(ring) < 3 {
		return nil, ErrDegeneratePolygon
	}

	height := props.Height()
	m := &Mesh{}

	// Walls: ring is closed, so edges pair index i with i+1.
	for i := 0; i < len(ring)-1; i++ {
		p0 := ring[i]
		p1 := ring[i+1]
		bottom0 := m.AddVertex(p0[0], p0[1], 0)
		bottom1 := m.AddVertex(p1[0], p1[1], 0)
		top0 := m.AddVertex(p0[0], p0[1], height)
		top1 := m.AddVertex(p1[0], p1[1], height)

		m.Faces = append(m.Faces,
			Triangle{bottom0, bottom1, top1},
			Triangle{bottom0, top1, top0},
		)
		uvBase := len(m.UVs)
		m.UVIndices = append(m.UVIndices,
			Triangle{uvBase, uvBase + 1, uvBase + 2},
			Triangle{uvBase, uvBase + 2, uvBase + 3},
		)
		m.UVs = append(m.UVs, UV{0, 0}, UV{1, 0}, UV{1, 1}, UV{0, 1})

		label := WallLabel(i)
		m.FaceLabels = append(m.FaceLabels, label, label)
	}

	// Roof: fan around the first vertex at roof height, skipping the
	// closing duplicate.
	roofStart := m.AddVertex(ring[0][0], ring[0][1], height)
	roofBase := len(m.Vertices)
	for _, p := range ring[1 : len(ring)-1] {
		m.AddVertex(p[0], p[1], height)
	}
	for i := roofBase; i < len(m.Vertices)-1; i++ {
		m.Faces = append(m.Faces, Triangle{roofStart, i, i + 1})
		uvBase := len(m.UVs)
		m.UVIndices = append(m.UVIndices, Triangle{uvBase, uvBase + 1, uvBase + 2})
		m.UVs = append(m.UVs, UV{0.5, 0.5}, UV{0.6, 0.5}, UV{0.5, 0.6})
		m.FaceLabels = append(m.FaceLabels, RoofLabel)
	}

	return m, nil
}

// closedRing returns the ring with its first point repeated as the last.
func closedRing(ring orb.Ring) orb.Ring {
	if len(ring) == 0 || ring[0] == ring[len(ring)-1] {
		return ring
	}
	closed := make(orb.Ring, len(ring), len(ring)+1)
	copy(closed, ring)
	return append(closed, ring[0])
}

// distinctPoints counts unique vertices, ignoring the closing duplicate.
func distinctPoints(ring orb.Ring) int {
	seen := make(map[orb.Point]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}
