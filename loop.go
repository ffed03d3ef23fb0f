package scrollfx

import (
	"time"
)

// Frame is the per-frame snapshot handed to every loop subscriber. All
// subscribers in one frame see the same values.
type Frame struct {
	Now time.Time
	// Delta is the time since the previous frame in seconds, clamped to
	// LoopConfig.MaxDelta. The first frame after a start or resume has a
	// zero delta.
	Delta float64
	// Elapsed accumulates Delta; hidden time is excluded.
	Elapsed float64
	// Scroll is the engine state after this frame's tick.
	Scroll ScrollState
	// Index counts frames since creation.
	Index uint64
}

// FrameFunc is a per-frame update registered with the RenderLoop.
type FrameFunc func(Frame)

// ScrollDriver is a scroll source the loop advances before subscribers run.
type ScrollDriver interface {
	ScrollSource
	Tick(dt float64) bool
}

// LoopConfig tunes the render loop.
type LoopConfig struct {
	// MaxDelta caps a single frame's delta. Default 100ms.
	MaxDelta time.Duration `yaml:"max_delta"`
}

// DefaultLoopConfig returns the loop defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{MaxDelta: 100 * time.Millisecond}
}

// RenderLoop is the single frame source for every effect. It keeps at most
// one frame request outstanding, ticks the scroll driver first, then runs
// subscribers in registration order.
type RenderLoop struct {
	sched    FrameScheduler
	driver   ScrollDriver
	subs     listenerList[FrameFunc]
	maxDelta float64

	pending   FrameID
	scheduled bool
	running   bool
	hidden    bool

	last    time.Time
	hasLast bool
	elapsed float64
	frames  uint64
}

// NewRenderLoop creates a stopped loop. driver may be nil.
func NewRenderLoop(sched FrameScheduler, driver ScrollDriver, cfg LoopConfig) *RenderLoop {
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = DefaultLoopConfig().MaxDelta
	}
	return &RenderLoop{
		sched:    sched,
		driver:   driver,
		maxDelta: cfg.MaxDelta.Seconds(),
	}
}

// Add registers fn to run every frame until the handle is removed.
func (l *RenderLoop) Add(fn FrameFunc) Handle {
	return l.subs.add(fn)
}

// Subscribers returns the number of registered updates.
func (l *RenderLoop) Subscribers() int { return l.subs.len() }

// Start begins requesting frames.
func (l *RenderLoop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.hasLast = false
	l.schedule()
}

// Stop cancels the pending frame and stops requesting new ones.
func (l *RenderLoop) Stop() {
	l.running = false
	l.cancel()
}

// SetVisible pauses the loop entirely while hidden and resumes without a
// time jump when visible again.
func (l *RenderLoop) SetVisible(visible bool) {
	if visible == !l.hidden {
		return
	}
	l.hidden = !visible
	if l.hidden {
		l.cancel()
		return
	}
	l.hasLast = false
	l.schedule()
}

// Visible reports whether the loop considers the page visible.
func (l *RenderLoop) Visible() bool { return !l.hidden }

// Running reports whether Start has been called without Stop.
func (l *RenderLoop) Running() bool { return l.running }

// Scheduled reports whether a frame request is outstanding.
func (l *RenderLoop) Scheduled() bool { return l.scheduled }

// Elapsed returns the accumulated visible run time in seconds.
func (l *RenderLoop) Elapsed() float64 { return l.elapsed }

func (l *RenderLoop) schedule() {
	if l.scheduled || !l.running || l.hidden {
		return
	}
	l.scheduled = true
	l.pending = l.sched.RequestFrame(l.frame)
}

func (l *RenderLoop) cancel() {
	if !l.scheduled {
		return
	}
	l.sched.CancelFrame(l.pending)
	l.scheduled = false
	l.pending = 0
}

func (l *RenderLoop) frame(now time.Time) {
	l.scheduled = false
	l.pending = 0
	if !l.running || l.hidden {
		return
	}

	dt := 0.0
	if l.hasLast {
		dt = clamp(now.Sub(l.last).Seconds(), 0, l.maxDelta)
	}
	l.last = now
	l.hasLast = true
	l.elapsed += dt
	l.frames++

	f := Frame{Now: now, Delta: dt, Elapsed: l.elapsed, Index: l.frames}
	if l.driver != nil {
		l.driver.Tick(dt)
		f.Scroll = l.driver.State()
	}
	l.subs.each(func(fn FrameFunc) { fn(f) })

	l.schedule()
}
