package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("unexpected default resolution %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync enabled by default")
	}
	if cfg.Stage.Width != 16 || cfg.Stage.Height != 16 {
		t.Errorf("unexpected default stage size %dx%d", cfg.Stage.Width, cfg.Stage.Height)
	}
	if cfg.Stage.Layers != 1 {
		t.Errorf("expected 1 default layer, got %d", cfg.Stage.Layers)
	}
	if cfg.Stage.MaxAnimationFrames != 4 {
		t.Errorf("expected 4 default animation frames, got %d", cfg.Stage.MaxAnimationFrames)
	}
	if cfg.Stage.ColorMultiply != [3]float32{1, 1, 1} {
		t.Errorf("expected identity color multiply, got %v", cfg.Stage.ColorMultiply)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
stage:
  width: 32
  height: 24
  layers: 3
  flip_u: true
data:
  atlas: sheets/town.json
  diffuse: sheets/town.png
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Stage.Width != 32 || cfg.Stage.Height != 24 {
		t.Errorf("stage size not loaded: %dx%d", cfg.Stage.Width, cfg.Stage.Height)
	}
	if cfg.Stage.Layers != 3 {
		t.Errorf("layers not loaded: %d", cfg.Stage.Layers)
	}
	if !cfg.Stage.FlipU {
		t.Error("flip_u not loaded")
	}
	if cfg.Data.Atlas != "sheets/town.json" {
		t.Errorf("atlas path not loaded: %s", cfg.Data.Atlas)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level not loaded: %s", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults.
	if cfg.Graphics.Width != 1280 {
		t.Errorf("graphics width lost default: %d", cfg.Graphics.Width)
	}
	if cfg.Stage.MaxAnimationFrames != 4 {
		t.Errorf("max animation frames lost default: %d", cfg.Stage.MaxAnimationFrames)
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("stage: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.Stage.Width = 48
	cfg.Stage.Layers = 2
	cfg.Stage.ColorMultiply = [3]float32{0.5, 1, 0.25}
	cfg.Data.TileMaps = "state.stm"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if loaded.Stage.Width != 48 {
		t.Errorf("stage width not round-tripped: %d", loaded.Stage.Width)
	}
	if loaded.Stage.Layers != 2 {
		t.Errorf("layers not round-tripped: %d", loaded.Stage.Layers)
	}
	if loaded.Stage.ColorMultiply != [3]float32{0.5, 1, 0.25} {
		t.Errorf("color multiply not round-tripped: %v", loaded.Stage.ColorMultiply)
	}
	if loaded.Data.TileMaps != "state.stm" {
		t.Errorf("tilemaps path not round-tripped: %s", loaded.Data.TileMaps)
	}
}
