package scrollfx

import (
	"fmt"
	"math"
)

// VelocityConfig configures the scroll-velocity skew effect.
type VelocityConfig struct {
	Class string `yaml:"class"`
	// K converts velocity (px/frame) to skew radians.
	K float64 `yaml:"k"`
	// MaxSkew caps the skew in radians.
	MaxSkew float64 `yaml:"max_skew"`
	// MaxBlur is the blur at MaxSkew, in pixels.
	MaxBlur float64 `yaml:"max_blur"`
	// Rate is the EffectProxy smoothing rate.
	Rate float64 `yaml:"rate"`
	// Threshold is the smoothed skew below which nothing is written.
	Threshold float64 `yaml:"threshold"`
}

// DefaultVelocityConfig returns the velocity defaults.
func DefaultVelocityConfig() VelocityConfig {
	return VelocityConfig{
		Class:     "velocity",
		K:         0.004,
		MaxSkew:   0.12,
		MaxBlur:   4,
		Rate:      0.1,
		Threshold: 0.001,
	}
}

// VelocityEffect skews and blurs its targets in proportion to the smoothed
// scroll velocity.
type VelocityEffect struct {
	cfg     VelocityConfig
	proxy   EffectProxy
	targets []*Element
	applied bool
	writes  int
	sub     Handle
}

// NewVelocityEffect subscribes the effect to loop. It returns
// ErrReducedMotion under reduced motion and ErrElementNotFound when no
// target matches.
func NewVelocityEffect(page *Page, loop *RenderLoop, env Environment, cfg VelocityConfig) (*VelocityEffect, error) {
	if env.ReducedMotion() {
		return nil, fmt.Errorf("velocity: %w", ErrReducedMotion)
	}
	def := DefaultVelocityConfig()
	if cfg.Class == "" {
		cfg.Class = def.Class
	}
	if cfg.MaxSkew <= 0 {
		cfg.MaxSkew = def.MaxSkew
	}
	targets := page.ByClass(cfg.Class)
	if len(targets) == 0 {
		return nil, fmt.Errorf("velocity: %w: .%s", ErrElementNotFound, cfg.Class)
	}
	v := &VelocityEffect{
		cfg:     cfg,
		proxy:   NewEffectProxy(0, cfg.Rate),
		targets: targets,
	}
	v.sub = loop.Add(v.frame)
	return v, nil
}

// Current returns the smoothed skew in radians.
func (v *VelocityEffect) Current() float64 { return v.proxy.Current }

// Writes returns how many frames wrote to the targets.
func (v *VelocityEffect) Writes() int { return v.writes }

func (v *VelocityEffect) frame(f Frame) {
	v.proxy.Target = clamp(finite(f.Scroll.Velocity*v.cfg.K), -v.cfg.MaxSkew, v.cfg.MaxSkew)
	skew := v.proxy.Step()
	if math.Abs(skew) < v.cfg.Threshold {
		if v.applied {
			v.write(0, 0)
			v.applied = false
		}
		return
	}
	v.write(skew, math.Abs(skew)/v.cfg.MaxSkew*v.cfg.MaxBlur)
	v.applied = true
}

func (v *VelocityEffect) write(skew, blur float64) {
	v.writes++
	for _, el := range v.targets {
		el.SkewX = skew
		el.MotionBlur = blur
	}
}

// Close detaches from the loop and clears the targets.
func (v *VelocityEffect) Close() {
	v.sub.Remove()
	if v.applied {
		v.write(0, 0)
		v.applied = false
	}
}
