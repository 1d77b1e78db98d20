package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Pipeline.TexelDensity != 512.0 {
		t.Errorf("expected texel density 512, got %f", cfg.Pipeline.TexelDensity)
	}
	if cfg.Pipeline.Seed != 0 {
		t.Errorf("expected seed 0, got %d", cfg.Pipeline.Seed)
	}
	if cfg.Pipeline.CacheDir != ".cache" {
		t.Errorf("expected cache dir .cache, got %s", cfg.Pipeline.CacheDir)
	}
	if cfg.Pipeline.DryRunGeometry {
		t.Error("expected dry_run_geometry to be false by default")
	}

	if cfg.Facade.PlinthHeight != 0.6 {
		t.Errorf("expected plinth height 0.6, got %f", cfg.Facade.PlinthHeight)
	}
	if cfg.Facade.WindowWidth != 1.2 {
		t.Errorf("expected window width 1.2, got %f", cfg.Facade.WindowWidth)
	}
	if cfg.Facade.WindowHeight != 1.4 {
		t.Errorf("expected window height 1.4, got %f", cfg.Facade.WindowHeight)
	}

	if cfg.Texture.Device != "cpu" {
		t.Errorf("expected device cpu, got %s", cfg.Texture.Device)
	}
	if cfg.Texture.Model != "sdxl" {
		t.Errorf("expected model sdxl, got %s", cfg.Texture.Model)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshgen.yaml")

	yamlContent := `
pipeline:
  texel_density: 64
  seed: 7
  cache_dir: /var/cache/meshgen
  dry_run_geometry: true

facade:
  plinth_height: 0.9
  window_width: 1.0

texture:
  device: cuda
  recipe: brick_classic_city
  city_hint: Vienna

logging:
  level: "debug"
  log_file: "meshgen.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Pipeline.TexelDensity != 64 {
		t.Errorf("expected texel density 64, got %f", cfg.Pipeline.TexelDensity)
	}
	if cfg.Pipeline.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Pipeline.Seed)
	}
	if cfg.Pipeline.CacheDir != "/var/cache/meshgen" {
		t.Errorf("expected cache dir /var/cache/meshgen, got %s", cfg.Pipeline.CacheDir)
	}
	if !cfg.Pipeline.DryRunGeometry {
		t.Error("expected dry_run_geometry to be true")
	}

	// File values merge over defaults; untouched fields keep defaults.
	if cfg.Facade.PlinthHeight != 0.9 {
		t.Errorf("expected plinth height 0.9, got %f", cfg.Facade.PlinthHeight)
	}
	if cfg.Facade.WindowWidth != 1.0 {
		t.Errorf("expected window width 1.0, got %f", cfg.Facade.WindowWidth)
	}
	if cfg.Facade.WindowHeight != 1.4 {
		t.Errorf("expected default window height 1.4, got %f", cfg.Facade.WindowHeight)
	}

	if cfg.Texture.Device != "cuda" {
		t.Errorf("expected device cuda, got %s", cfg.Texture.Device)
	}
	if cfg.Texture.Recipe != "brick_classic_city" {
		t.Errorf("expected recipe brick_classic_city, got %s", cfg.Texture.Recipe)
	}
	if cfg.Texture.CityHint != "Vienna" {
		t.Errorf("expected city hint Vienna, got %s", cfg.Texture.CityHint)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "meshgen.log" {
		t.Errorf("expected log file meshgen.log, got %s", cfg.Logging.LogFile)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "meshgen.yaml")

	cfg := Default()
	cfg.Pipeline.TexelDensity = 128
	cfg.Texture.Recipe = "plaster_modern"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	reloaded := Default()
	if err := loadFromFile(reloaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if reloaded.Pipeline.TexelDensity != 128 {
		t.Errorf("expected texel density 128 after reload, got %f", reloaded.Pipeline.TexelDensity)
	}
	if reloaded.Texture.Recipe != "plaster_modern" {
		t.Errorf("expected recipe plaster_modern after reload, got %s", reloaded.Texture.Recipe)
	}
}
