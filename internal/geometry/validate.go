package geometry

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/twpayne/go-geos"
	"go.uber.org/zap"

	"github.com/cityforge/meshgen/internal/logger"
)

// Validation errors.
var (
	ErrInvalidGeometryKind  = errors.New("geometry must be Polygon or MultiPolygon")
	ErrUnrepairableGeometry = errors.New("geometry could not be repaired")
)

// ValidatePolygon sanitizes a raw footprint geometry. MultiPolygons collapse
// to their largest sub-polygon. Topologically invalid polygons get one
// zero-width buffer repair pass; anything still invalid is rejected.
func ValidatePolygon(geom orb.Geometry) (orb.Polygon, error) {
	var poly orb.Polygon

	switch g := geom.(type) {
	case orb.Polygon:
		poly = g
	case orb.MultiPolygon:
		if len(g) == 0 {
			return nil, ErrInvalidGeometryKind
		}
		poly = largestPolygon(g)
	default:
		return nil, ErrInvalidGeometryKind
	}

	if len(poly) == 0 || len(poly[0]) == 0 {
		return nil, ErrInvalidGeometryKind
	}

	poly = closeRings(poly)

	// Rings too short to self-intersect pass through untouched; extrusion
	// reports them as degenerate.
	if len(poly[0]) < 4 {
		return poly, nil
	}

	return repairIfInvalid(poly)
}

// largestPolygon picks the sub-polygon with the largest planar area.
func largestPolygon(mp orb.MultiPolygon) orb.Polygon {
	best := mp[0]
	bestArea := planar.Area(mp[0])
	for _, p := range mp[1:] {
		if a := planar.Area(p); a > bestArea {
			best = p
			bestArea = a
		}
	}
	return best
}

// closeRings ensures every ring repeats its first vertex as the last one.
func closeRings(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		copy(r, ring)
		if len(r) > 0 && r[0] != r[len(r)-1] {
			r = append(r, r[0])
		}
		out[i] = r
	}
	return out
}

// repairIfInvalid checks topological validity through GEOS and applies a
// single Buffer(0) pass when the polygon is self-intersecting.
func repairIfInvalid(poly orb.Polygon) (orb.Polygon, error) {
	raw, err := geojson.NewGeometry(poly).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: encoding polygon: %v", ErrUnrepairableGeometry, err)
	}

	g, err := geos.NewGeomFromGeoJSON(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrepairableGeometry, err)
	}
	defer g.Destroy()

	if g.IsValid() {
		return poly, nil
	}

	logger.Warn("invalid polygon, attempting zero-width buffer repair",
		zap.String("reason", g.IsValidReason()))

	repaired := g.Buffer(0, 8)
	if repaired == nil {
		return nil, ErrUnrepairableGeometry
	}
	defer repaired.Destroy()

	if repaired.IsEmpty() || !repaired.IsValid() {
		return nil, ErrUnrepairableGeometry
	}

	back, err := geojson.UnmarshalGeometry([]byte(repaired.ToGeoJSON(-1)))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding repaired polygon: %v", ErrUnrepairableGeometry, err)
	}

	// Buffer(0) on a bowtie can split it into a MultiPolygon; keep the
	// largest piece, matching the MultiPolygon input policy.
	switch repairedGeom := back.Geometry().(type) {
	case orb.Polygon:
		return closeRings(repairedGeom), nil
	case orb.MultiPolygon:
		if len(repairedGeom) == 0 {
			return nil, ErrUnrepairableGeometry
		}
		return closeRings(largestPolygon(repairedGeom)), nil
	default:
		return nil, ErrUnrepairableGeometry
	}
}
