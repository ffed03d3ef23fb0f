package scrollfx

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// EngineConfig tunes the momentum scroll engine.
type EngineConfig struct {
	// Duration is the time constant (seconds) of the exponential smoothing
	// curve. Larger values glide longer. Default 1.2.
	Duration float64 `yaml:"duration"`
	// Epsilon is the distance (px) under which Position snaps to the
	// target and the engine is considered settled. Default 0.1.
	Epsilon float64 `yaml:"epsilon"`
	// WheelMultiplier scales wheel deltas. Default 1.
	WheelMultiplier float64 `yaml:"wheel_multiplier"`
	// TouchMultiplier scales touch drag deltas. Default 2.
	TouchMultiplier float64 `yaml:"touch_multiplier"`
	// KeyStep is the distance of one arrow-key press in pixels. Default 120.
	KeyStep float64 `yaml:"key_step"`
	// ScrollToDuration is the default ScrollTo duration in seconds.
	// Default 1.2.
	ScrollToDuration float64 `yaml:"scroll_to_duration"`
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Duration:         1.2,
		Epsilon:          0.1,
		WheelMultiplier:  1,
		TouchMultiplier:  2,
		KeyStep:          120,
		ScrollToDuration: 1.2,
	}
}

// ScrollToOptions controls a programmatic scroll.
type ScrollToOptions struct {
	// Duration in seconds. Zero uses EngineConfig.ScrollToDuration.
	Duration float32
	// Easing curve. Nil uses ease.OutExpo.
	Easing ease.TweenFunc
	// Immediate jumps straight to the target with no animation.
	Immediate bool
	// Offset is added to the target before clamping.
	Offset float64
}

// ScrollEngine owns the virtual scroll position. Raw input moves the
// target; Tick eases Position toward it once per frame.
type ScrollEngine struct {
	cfg   EngineConfig
	state ScrollState

	tween     *gween.Tween
	notified  float64
	dirty     bool
	teleport  bool
	stopped   bool
	listeners listenerList[func(ScrollState)]
}

// NewScrollEngine creates an engine at position 0 with a zero limit.
// Zero-valued config fields fall back to DefaultEngineConfig.
func NewScrollEngine(cfg EngineConfig) *ScrollEngine {
	def := DefaultEngineConfig()
	if cfg.Duration < 0 {
		cfg.Duration = 0
	} else if cfg.Duration == 0 {
		cfg.Duration = def.Duration
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = def.Epsilon
	}
	if cfg.WheelMultiplier == 0 {
		cfg.WheelMultiplier = def.WheelMultiplier
	}
	if cfg.TouchMultiplier == 0 {
		cfg.TouchMultiplier = def.TouchMultiplier
	}
	if cfg.KeyStep <= 0 {
		cfg.KeyStep = def.KeyStep
	}
	if cfg.ScrollToDuration <= 0 {
		cfg.ScrollToDuration = def.ScrollToDuration
	}
	return &ScrollEngine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *ScrollEngine) Config() EngineConfig { return e.cfg }

// State returns a snapshot of the scroll register.
func (e *ScrollEngine) State() ScrollState { return e.state }

// OnScroll registers fn to run every tick that moves Position.
func (e *ScrollEngine) OnScroll(fn func(ScrollState)) Handle {
	return e.listeners.add(fn)
}

// Stop freezes user input. Programmatic ScrollTo still works.
func (e *ScrollEngine) Stop() { e.stopped = true }

// Start re-enables user input after Stop.
func (e *ScrollEngine) Start() { e.stopped = false }

// Stopped reports whether user input is frozen.
func (e *ScrollEngine) Stopped() bool { return e.stopped }

// Settled reports whether Position has converged to the target and no
// programmatic scroll is running.
func (e *ScrollEngine) Settled() bool {
	return e.tween == nil && e.state.Position == e.state.TargetPosition
}

// AddDelta applies a raw input delta (positive scrolls down the page).
// Any running ScrollTo animation is cancelled.
func (e *ScrollEngine) AddDelta(dy float64, src InputSource) {
	if e.stopped || dy == 0 || math.IsNaN(dy) {
		return
	}
	switch src {
	case InputWheel:
		dy *= e.cfg.WheelMultiplier
	case InputTouch:
		dy *= e.cfg.TouchMultiplier
	}
	if e.tween != nil {
		e.tween = nil
		e.state.TargetPosition = e.state.Position
	}
	e.state.TargetPosition = clamp(e.state.TargetPosition+dy, 0, e.state.Limit)
}

// ScrollTo moves to target. With Immediate set Position jumps; otherwise it
// animates with the given duration and easing.
func (e *ScrollEngine) ScrollTo(target float64, opts ScrollToOptions) {
	target = clamp(finite(target+opts.Offset), 0, e.state.Limit)
	if opts.Immediate {
		e.tween = nil
		e.state.TargetPosition = target
		e.state.Position = target
		e.teleport = true
		e.dirty = true
		return
	}
	d := opts.Duration
	if d <= 0 {
		d = float32(e.cfg.ScrollToDuration)
	}
	fn := opts.Easing
	if fn == nil {
		fn = ease.OutExpo
	}
	e.state.TargetPosition = target
	e.tween = gween.New(float32(e.state.Position), float32(target), d, fn)
}

// SetLimit updates the maximum scroll offset after a content-length or
// viewport change, clamping target and position into the new range.
func (e *ScrollEngine) SetLimit(limit float64) {
	limit = math.Max(0, finite(limit))
	if limit == e.state.Limit {
		return
	}
	e.state.Limit = limit
	e.state.TargetPosition = clamp(e.state.TargetPosition, 0, limit)
	if e.state.Position > limit {
		e.state.Position = limit
		e.teleport = true
	}
	e.dirty = true
}

// frameFactor is the fraction of the remaining distance covered in dt
// seconds, taken from the expo-out curve 1 - 2^(-10t).
func (e *ScrollEngine) frameFactor(dt float64) float64 {
	if e.cfg.Duration <= 0 {
		return 1
	}
	if dt <= 0 {
		return 0
	}
	return 1 - math.Pow(2, -10*dt/e.cfg.Duration)
}

// Tick advances the engine by dt seconds. It returns true and notifies
// listeners only when Position changed (or the limit moved); a settled
// engine with an unchanged target is silent.
func (e *ScrollEngine) Tick(dt float64) bool {
	prev := e.notified
	pos := e.state.Position

	if e.tween != nil {
		val, done := e.tween.Update(float32(dt))
		pos = float64(val)
		if done {
			pos = e.state.TargetPosition
			e.tween = nil
		}
	} else if diff := e.state.TargetPosition - pos; diff != 0 {
		if math.Abs(diff) <= e.cfg.Epsilon {
			pos = e.state.TargetPosition
		} else {
			pos += diff * e.frameFactor(dt)
		}
	}
	pos = clamp(pos, 0, e.state.Limit)
	e.state.Position = pos

	if pos == prev && !e.dirty {
		e.state.Velocity = 0
		return false
	}

	if e.teleport {
		e.state.Velocity = 0
	} else {
		e.state.Velocity = pos - prev
	}
	e.teleport = false
	e.dirty = false
	e.notified = pos
	e.state.Frame++

	snapshot := e.state
	e.listeners.each(func(fn func(ScrollState)) { fn(snapshot) })
	return true
}
