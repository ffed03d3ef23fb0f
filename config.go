package scrollfx

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by LoadConfig for values outside their
// documented range.
var ErrInvalidConfig = errors.New("scrollfx: invalid config")

// Motion preference values.
const (
	MotionAuto    = "auto"
	MotionReduced = "reduced"
)

// Config is the complete typed configuration, parsed once at start-up.
type Config struct {
	// Motion is "auto" (follow the environment) or "reduced".
	Motion string `yaml:"motion"`
	// Debug enables per-frame stats on stderr.
	Debug bool `yaml:"debug"`
	// Overlay shows the on-screen debug readout.
	Overlay bool `yaml:"overlay"`
	// ScreenshotDir receives PNGs queued with Site.Screenshot.
	ScreenshotDir string `yaml:"screenshot_dir"`
	// Settle is the resize debounce used when the page has no takeover.
	Settle time.Duration `yaml:"settle"`

	Engine   EngineConfig   `yaml:"engine"`
	Loop     LoopConfig     `yaml:"loop"`
	Input    InputConfig    `yaml:"input"`
	Takeover TakeoverConfig `yaml:"takeover"`
	Shader   ShaderConfig   `yaml:"shader"`
	Velocity VelocityConfig `yaml:"velocity"`
	Reveal   RevealConfig   `yaml:"reveal"`
	Parallax ParallaxConfig `yaml:"parallax"`
	Cursor   CursorConfig   `yaml:"cursor"`
	Magnetic MagneticConfig `yaml:"magnetic"`
}

// DefaultConfig returns every component's documented defaults.
func DefaultConfig() Config {
	return Config{
		Motion:        MotionAuto,
		ScreenshotDir: "screenshots",
		Settle:        250 * time.Millisecond,
		Engine:        DefaultEngineConfig(),
		Loop:          DefaultLoopConfig(),
		Input:         DefaultInputConfig(),
		Takeover:      DefaultTakeoverConfig(),
		Shader:        DefaultShaderConfig(),
		Velocity:      DefaultVelocityConfig(),
		Reveal:        DefaultRevealConfig(),
		Parallax:      DefaultParallaxConfig(),
		Cursor:        DefaultCursorConfig(),
		Magnetic:      DefaultMagneticConfig(),
	}
}

// LoadConfig parses YAML over the defaults: fields absent from data keep
// their default value. Durations are written as strings ("250ms").
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	switch c.Motion {
	case "", MotionAuto, MotionReduced:
	default:
		return fmt.Errorf("%w: motion %q (want %q or %q)", ErrInvalidConfig, c.Motion, MotionAuto, MotionReduced)
	}
	if c.Settle < 0 || c.Takeover.Settle < 0 {
		return fmt.Errorf("%w: negative settle window", ErrInvalidConfig)
	}
	for name, rate := range map[string]float64{
		"velocity.rate": c.Velocity.Rate,
		"cursor.rate":   c.Cursor.Rate,
		"magnetic.rate": c.Magnetic.Rate,
	} {
		if rate <= 0 || rate > 1 || math.IsNaN(rate) {
			return fmt.Errorf("%w: %s = %v, want 0 < rate <= 1", ErrInvalidConfig, name, rate)
		}
	}
	if d := c.Takeover.SnapDuration; d < 0 || math.IsNaN(float64(d)) {
		return fmt.Errorf("%w: takeover.snap_duration = %v", ErrInvalidConfig, d)
	}
	if c.Shader.MaxDeviceScale < 0 {
		return fmt.Errorf("%w: shader.max_device_scale = %v", ErrInvalidConfig, c.Shader.MaxDeviceScale)
	}
	return nil
}

// ReducedMotion reports whether the config forces reduced motion.
func (c Config) ReducedMotion() bool { return c.Motion == MotionReduced }
