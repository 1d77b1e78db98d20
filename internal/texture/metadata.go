package texture

import (
	"strconv"

	"github.com/cityforge/meshgen/internal/config"
	"github.com/cityforge/meshgen/internal/geometry"
)

// Metadata assembles the open string mapping handed to the synthesizer.
// Numeric attributes are stringified here; empty hints are omitted so the
// mapping carries only meaningful keys.
func Metadata(cfg config.TextureConfig, props geometry.BuildingProperties) map[string]string {
	md := map[string]string{
		"floor_count":    strconv.Itoa(props.FloorsCount),
		"floor_height_m": strconv.FormatFloat(props.FloorHeight, 'g', -1, 64),
	}

	setIfPresent(md, "device", cfg.Device)
	setIfPresent(md, "model", cfg.Model)
	setIfPresent(md, "recipe", cfg.Recipe)
	setIfPresent(md, "city_hint", cfg.CityHint)
	setIfPresent(md, "climate_hint", cfg.ClimateHint)
	setIfPresent(md, "era_hint", cfg.EraHint)
	setIfPresent(md, "style_hint", cfg.StyleHint)
	setIfPresent(md, "material_hint", cfg.MaterialHint)
	setIfPresent(md, "seed_hint", cfg.SeedHint)

	md["roof"] = props.RoofType
	if md["roof"] == "" {
		md["roof"] = "flat"
	}
	md["material"] = props.RoofMaterial
	if md["material"] == "" {
		md["material"] = "default"
	}

	return md
}

func setIfPresent(md map[string]string, key, value string) {
	if value != "" {
		md[key] = value
	}
}
