// Package geometry sanitizes building footprints and reprojects them into a
// local planar coordinate system.
package geometry

import (
	"github.com/paulmach/orb/geojson"
)

// Default building attributes applied when the feature properties omit them.
const (
	DefaultFloorsCount = 1
	DefaultFloorHeight = 3.0
)

// BuildingProperties holds the per-building attributes driving extrusion and
// texturing. Immutable once derived from feature properties.
type BuildingProperties struct {
	FloorsCount    int
	FloorHeight    float64
	BuildingHeight float64
	RoofType       string
	RoofMaterial   string
}

// Height resolves the extrusion height: explicit building height when present
// and nonzero, otherwise floors times per-floor height.
func (p BuildingProperties) Height() float64 {
	if p.BuildingHeight != 0 {
		return p.BuildingHeight
	}
	return float64(p.FloorsCount) * p.FloorHeight
}

// PropertiesFromFeature derives BuildingProperties from GeoJSON feature
// properties, applying defaults for missing attributes.
func PropertiesFromFeature(props geojson.Properties) BuildingProperties {
	floors := props.MustInt("floors_count", DefaultFloorsCount)
	if floors < 1 {
		floors = DefaultFloorsCount
	}
	floorHeight := props.MustFloat64("floor_height", DefaultFloorHeight)
	if floorHeight <= 0 {
		floorHeight = DefaultFloorHeight
	}

	return BuildingProperties{
		FloorsCount:    floors,
		FloorHeight:    floorHeight,
		BuildingHeight: props.MustFloat64("building_height", float64(floors)*floorHeight),
		RoofType:       props.MustString("roof_type", ""),
		RoofMaterial:   props.MustString("roof_material", ""),
	}
}
