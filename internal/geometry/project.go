package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/wroge/wgs84"
)

// ErrProjection reports a footprint whose local projection cannot be derived.
var ErrProjection = errors.New("cannot derive local projection")

const (
	zoneWidthDeg    = 6.0
	epsgNorthOffset = 32600
	epsgSouthOffset = 32700
)

// Projection identifies a local transverse-Mercator zone. The zero value is
// not a usable projection; derive one with SelectLocalProjection.
type Projection struct {
	Zone  int
	South bool
}

// EPSG returns the numeric EPSG code for the zone.
func (p Projection) EPSG() int {
	if p.South {
		return epsgSouthOffset + p.Zone
	}
	return epsgNorthOffset + p.Zone
}

// String returns the projection identifier, e.g. "EPSG:32633".
func (p Projection) String() string {
	return fmt.Sprintf("EPSG:%d", p.EPSG())
}

// transform returns the geographic→planar conversion for the zone. The zone
// is forced so every vertex of a footprint lands in the same plane even when
// the ring straddles a zone boundary.
func (p Projection) transform() wgs84.Func {
	return wgs84.LonLat().To(wgs84.UTM(float64(p.Zone), !p.South))
}

// SelectLocalProjection derives the zone containing the polygon centroid.
// Zone index is floor((lon+180)/6)+1; hemisphere follows centroid latitude.
func SelectLocalProjection(poly orb.Polygon) (Projection, error) {
	lon, lat, err := centroid(poly)
	if err != nil {
		return Projection{}, err
	}

	zone := int(math.Floor((lon+180.0)/zoneWidthDeg)) + 1
	if zone < 1 {
		zone = 1
	} else if zone > 60 {
		zone = 60
	}

	return Projection{Zone: zone, South: lat < 0}, nil
}

// centroid returns the polygon's area centroid, falling back to the vertex
// mean for zero-area rings.
func centroid(poly orb.Polygon) (lon, lat float64, err error) {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return 0, 0, ErrProjection
	}

	c, area := planar.CentroidArea(poly)
	if area == 0 || math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		ring := poly[0]
		n := len(ring)
		if n > 1 && ring[0] == ring[n-1] {
			n--
		}
		var sx, sy float64
		for _, pt := range ring[:n] {
			sx += pt[0]
			sy += pt[1]
		}
		c = orb.Point{sx / float64(n), sy / float64(n)}
	}

	if math.IsNaN(c[0]) || math.IsInf(c[0], 0) || math.IsNaN(c[1]) || math.IsInf(c[1], 0) {
		return 0, 0, ErrProjection
	}
	return c[0], c[1], nil
}

// ProjectPolygon reprojects every vertex of a geographic polygon into local
// planar meters using the given projection.
func ProjectPolygon(poly orb.Polygon, proj Projection) (orb.Polygon, error) {
	if len(poly) == 0 {
		return nil, ErrProjection
	}

	forward := proj.transform()
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		for j, pt := range ring {
			if math.IsNaN(pt[0]) || math.IsNaN(pt[1]) || math.Abs(pt[1]) > 90 {
				return nil, ErrProjection
			}
			x, y, _ := forward(pt[0], pt[1], 0)
			if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
				return nil, ErrProjection
			}
			r[j] = orb.Point{x, y}
		}
		out[i] = r
	}
	return out, nil
}
