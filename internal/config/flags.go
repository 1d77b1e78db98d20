package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagTexelDensity = flag.Float64("texel-density", 0, "Texture pixels per meter")
	flagSeed         = flag.Int64("seed", -1, "Deterministic seed")
	flagDevice       = flag.String("device", "", "Device for texture synthesis")
	flagModel        = flag.String("model", "", "Texture model choice (sdxl/flux)")
	flagRecipe       = flag.String("recipe", "", "Prompt recipe name")
	flagCacheDir     = flag.String("cache-dir", "", "Directory for texture/model caches")
	flagDryRun       = flag.Bool("dry-run-geometry", false, "Skip texture synthesis; geometry only")
	flagLogFile      = flag.String("log-file", "", "Log file path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTexelDensity > 0 {
		cfg.Pipeline.TexelDensity = *flagTexelDensity
	}
	if *flagSeed >= 0 {
		cfg.Pipeline.Seed = *flagSeed
	}
	if *flagDevice != "" {
		cfg.Texture.Device = *flagDevice
	}
	if *flagModel != "" {
		cfg.Texture.Model = *flagModel
	}
	if *flagRecipe != "" {
		cfg.Texture.Recipe = *flagRecipe
	}
	if *flagCacheDir != "" {
		cfg.Pipeline.CacheDir = *flagCacheDir
	}
	if *flagDryRun {
		cfg.Pipeline.DryRunGeometry = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
