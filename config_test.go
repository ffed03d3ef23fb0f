package scrollfx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Motion != MotionAuto {
		t.Errorf("Motion = %q, want %q", cfg.Motion, MotionAuto)
	}
	if cfg.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", cfg.ScreenshotDir, "screenshots")
	}
	if cfg.Takeover.NarrowWidth != 768 || cfg.Takeover.Settle != 250*time.Millisecond {
		t.Errorf("Takeover = %+v, want narrow 768 settle 250ms", cfg.Takeover)
	}
	if cfg.Shader.MaxDeviceScale != 2 {
		t.Errorf("Shader.MaxDeviceScale = %f, want 2", cfg.Shader.MaxDeviceScale)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if cfg.ReducedMotion() {
		t.Error("ReducedMotion() = true for defaults")
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
motion: reduced
engine:
  duration: 0.8
takeover:
  settle: 400ms
reveal:
  once: false
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.ReducedMotion() {
		t.Error("ReducedMotion() = false")
	}
	if cfg.Engine.Duration != 0.8 {
		t.Errorf("Engine.Duration = %f, want 0.8", cfg.Engine.Duration)
	}
	if cfg.Engine.Epsilon != 0.1 || cfg.Engine.KeyStep != 120 {
		t.Errorf("Engine = %+v, want untouched defaults besides duration", cfg.Engine)
	}
	if cfg.Takeover.Settle != 400*time.Millisecond {
		t.Errorf("Takeover.Settle = %v, want 400ms", cfg.Takeover.Settle)
	}
	if cfg.Takeover.Track != "gallery-track" {
		t.Errorf("Takeover.Track = %q, want default", cfg.Takeover.Track)
	}
	if cfg.Reveal.Once || cfg.Reveal.Distance != 60 {
		t.Errorf("Reveal = %+v, want once false and default distance", cfg.Reveal)
	}
	if cfg.Loop.MaxDelta != 100*time.Millisecond {
		t.Errorf("Loop.MaxDelta = %v, want 100ms", cfg.Loop.MaxDelta)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"unknown motion", "motion: fast", true},
		{"negative settle", "settle: -1s", true},
		{"rate above one", "velocity:\n  rate: 2", true},
		{"zero rate", "magnetic:\n  rate: 0", true},
		{"negative rate", "cursor:\n  rate: -0.5", true},
		{"negative snap duration", "takeover:\n  snap_duration: -1", true},
		{"negative device scale", "shader:\n  max_device_scale: -1", true},
		{"bad yaml", "engine: [1, 2", false},
		{"bad duration", "settle: soon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("LoadConfig succeeded, want an error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v, want %v (err %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrollfx.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfigFile on a missing file succeeded")
	}
}
