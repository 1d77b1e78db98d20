// Package config handles pipeline configuration loading and management.
package config

// Config holds all pipeline settings.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Facade   FacadeConfig   `yaml:"facade"`
	Texture  TextureConfig  `yaml:"texture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig holds geometry and batch settings.
type PipelineConfig struct {
	TexelDensity   float64 `yaml:"texel_density"` // texture pixels per meter
	Seed           int64   `yaml:"seed"`
	CacheDir       string  `yaml:"cache_dir"`
	DryRunGeometry bool    `yaml:"dry_run_geometry"` // geometry only, no synthesis
}

// FacadeConfig holds facade mask layout settings, all in meters.
type FacadeConfig struct {
	PlinthHeight     float64 `yaml:"plinth_height"`
	DoorHeight       float64 `yaml:"door_height"`
	WindowWidth      float64 `yaml:"window_width"`
	WindowHeight     float64 `yaml:"window_height"`
	HorizontalMargin float64 `yaml:"horizontal_margin"`
	VerticalMargin   float64 `yaml:"vertical_margin"`
}

// TextureConfig holds texture synthesis settings. The hint fields are
// free-form and flow unchanged into the synthesizer metadata.
type TextureConfig struct {
	Device        string `yaml:"device"`
	Model         string `yaml:"model"`
	Recipe        string `yaml:"recipe"`
	PromptLibrary string `yaml:"prompt_library"`
	CityHint      string `yaml:"city_hint"`
	ClimateHint   string `yaml:"climate_hint"`
	EraHint       string `yaml:"era_hint"`
	StyleHint     string `yaml:"style_hint"`
	MaterialHint  string `yaml:"material_hint"`
	SeedHint      string `yaml:"seed_hint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			TexelDensity: 512.0,
			Seed:         0,
			CacheDir:     ".cache",
		},
		Facade: FacadeConfig{
			PlinthHeight:     0.6,
			DoorHeight:       2.2,
			WindowWidth:      1.2,
			WindowHeight:     1.4,
			HorizontalMargin: 0.8,
			VerticalMargin:   0.5,
		},
		Texture: TextureConfig{
			Device: "cpu",
			Model:  "sdxl",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
