package scrollfx

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

const frameDT = 1.0 / 60

func newTestEngine(limit float64) *ScrollEngine {
	e := NewScrollEngine(EngineConfig{})
	e.SetLimit(limit)
	e.Tick(0)
	return e
}

func TestScrollEngineDefaults(t *testing.T) {
	e := NewScrollEngine(EngineConfig{})
	cfg := e.Config()
	if cfg.Duration != 1.2 {
		t.Errorf("Duration = %f, want 1.2", cfg.Duration)
	}
	if cfg.WheelMultiplier != 1 || cfg.TouchMultiplier != 2 {
		t.Errorf("multipliers = %f/%f, want 1/2", cfg.WheelMultiplier, cfg.TouchMultiplier)
	}
	if s := e.State(); s.Position != 0 || s.Limit != 0 {
		t.Errorf("initial state = %+v, want zero", s)
	}
}

func TestScrollEngineConvergesWithoutOvershoot(t *testing.T) {
	e := newTestEngine(1000)
	e.AddDelta(100, InputWheel)

	prev := 0.0
	for i := 0; i < 300; i++ {
		e.Tick(frameDT)
		pos := e.State().Position
		if pos < prev {
			t.Fatalf("frame %d: Position = %f, went backwards from %f", i, pos, prev)
		}
		if pos > 100 {
			t.Fatalf("frame %d: Position = %f, overshoots target 100", i, pos)
		}
		prev = pos
	}
	if got := e.State().Position; got != 100 {
		t.Errorf("Position = %f, want exactly 100 after settling", got)
	}
	if !e.Settled() {
		t.Error("Settled() = false, want true")
	}
}

func TestScrollEngineFirstFrameFactor(t *testing.T) {
	e := newTestEngine(1000)
	e.AddDelta(100, InputWheel)
	e.Tick(frameDT)
	want := 100 * (1 - math.Pow(2, -10*frameDT/1.2))
	if got := e.State().Position; !approxEqual(got, want, epsilon) {
		t.Errorf("Position after one frame = %f, want %f", got, want)
	}
}

func TestScrollEngineFrameRateIndependent(t *testing.T) {
	a := newTestEngine(1000)
	b := newTestEngine(1000)
	a.AddDelta(500, InputWheel)
	b.AddDelta(500, InputWheel)

	for i := 0; i < 10; i++ {
		a.Tick(frameDT)
		b.Tick(frameDT / 2)
		b.Tick(frameDT / 2)
	}
	pa, pb := a.State().Position, b.State().Position
	if !approxEqual(pa, pb, 1e-6) {
		t.Errorf("60Hz Position = %f, 120Hz Position = %f, want equal", pa, pb)
	}
}

func TestScrollEngineSilentWhenSettled(t *testing.T) {
	e := newTestEngine(1000)
	calls := 0
	e.OnScroll(func(ScrollState) { calls++ })

	for i := 0; i < 10; i++ {
		if e.Tick(frameDT) {
			t.Fatalf("Tick() = true on a settled engine")
		}
	}
	if calls != 0 {
		t.Errorf("listener calls = %d, want 0", calls)
	}
	if v := e.State().Velocity; v != 0 {
		t.Errorf("Velocity = %f, want 0", v)
	}
}

func TestScrollEngineVelocity(t *testing.T) {
	e := newTestEngine(1000)
	e.AddDelta(200, InputWheel)
	e.Tick(frameDT)
	s := e.State()
	if s.Velocity <= 0 || s.Direction() != 1 {
		t.Errorf("Velocity = %f (dir %d), want positive", s.Velocity, s.Direction())
	}
	if !approxEqual(s.Velocity, s.Position, epsilon) {
		t.Errorf("Velocity = %f, want first-frame distance %f", s.Velocity, s.Position)
	}

	for i := 0; i < 400; i++ {
		e.Tick(frameDT)
	}
	e.AddDelta(-100, InputWheel)
	e.Tick(frameDT)
	if d := e.State().Direction(); d != -1 {
		t.Errorf("Direction() = %d after scrolling up, want -1", d)
	}
}

func TestScrollEngineAddDeltaMultipliers(t *testing.T) {
	tests := []struct {
		name string
		src  InputSource
		want float64
	}{
		{"wheel", InputWheel, 10},
		{"touch", InputTouch, 20},
		{"keyboard", InputKeyboard, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(1000)
			e.AddDelta(10, tt.src)
			if got := e.State().TargetPosition; got != tt.want {
				t.Errorf("TargetPosition = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScrollEngineTargetClamped(t *testing.T) {
	e := newTestEngine(500)
	e.AddDelta(-100, InputWheel)
	if got := e.State().TargetPosition; got != 0 {
		t.Errorf("TargetPosition = %f, want 0", got)
	}
	e.AddDelta(10000, InputWheel)
	if got := e.State().TargetPosition; got != 500 {
		t.Errorf("TargetPosition = %f, want 500", got)
	}
	e.AddDelta(math.NaN(), InputWheel)
	if got := e.State().TargetPosition; got != 500 {
		t.Errorf("TargetPosition after NaN = %f, want 500", got)
	}
}

func TestScrollEngineStop(t *testing.T) {
	e := newTestEngine(1000)
	e.Stop()
	e.AddDelta(100, InputWheel)
	if got := e.State().TargetPosition; got != 0 {
		t.Errorf("TargetPosition while stopped = %f, want 0", got)
	}
	e.ScrollTo(300, ScrollToOptions{Immediate: true})
	if got := e.State().Position; got != 300 {
		t.Errorf("ScrollTo while stopped: Position = %f, want 300", got)
	}
	e.Start()
	e.AddDelta(100, InputWheel)
	if got := e.State().TargetPosition; got != 400 {
		t.Errorf("TargetPosition after Start = %f, want 400", got)
	}
}

func TestScrollEngineImmediateScrollTo(t *testing.T) {
	e := newTestEngine(1000)
	var got ScrollState
	calls := 0
	e.OnScroll(func(s ScrollState) { got = s; calls++ })

	e.ScrollTo(600, ScrollToOptions{Immediate: true})
	if !e.Tick(frameDT) {
		t.Fatal("Tick() = false after an immediate ScrollTo")
	}
	if calls != 1 {
		t.Fatalf("listener calls = %d, want 1", calls)
	}
	if got.Position != 600 {
		t.Errorf("Position = %f, want 600", got.Position)
	}
	if got.Velocity != 0 {
		t.Errorf("Velocity = %f, want 0 for a teleport", got.Velocity)
	}
}

func TestScrollEngineScrollToOffsetAndClamp(t *testing.T) {
	e := newTestEngine(1000)
	e.ScrollTo(100, ScrollToOptions{Immediate: true, Offset: -20})
	if got := e.State().Position; got != 80 {
		t.Errorf("Position = %f, want 80", got)
	}
	e.ScrollTo(5000, ScrollToOptions{Immediate: true})
	if got := e.State().Position; got != 1000 {
		t.Errorf("Position = %f, want limit 1000", got)
	}
}

func TestScrollEngineAnimatedScrollTo(t *testing.T) {
	e := newTestEngine(1000)
	e.ScrollTo(300, ScrollToOptions{Duration: 0.5, Easing: ease.Linear})

	e.Tick(0.25)
	if got := e.State().Position; !approxEqual(got, 150, 0.01) {
		t.Errorf("Position at half duration = %f, want 150", got)
	}
	e.Tick(0.3)
	if got := e.State().Position; got != 300 {
		t.Errorf("Position after duration = %f, want 300", got)
	}
	if !e.Settled() {
		t.Error("Settled() = false after the animation finished")
	}
}

func TestScrollEngineAddDeltaCancelsAnimation(t *testing.T) {
	e := newTestEngine(1000)
	e.ScrollTo(800, ScrollToOptions{Duration: 1, Easing: ease.Linear})
	e.Tick(0.25)
	mid := e.State().Position
	e.AddDelta(10, InputWheel)
	if got := e.State().TargetPosition; !approxEqual(got, mid+10, epsilon) {
		t.Errorf("TargetPosition = %f, want %f", got, mid+10)
	}
}

func TestScrollEngineSetLimitClamps(t *testing.T) {
	e := newTestEngine(1000)
	e.ScrollTo(800, ScrollToOptions{Immediate: true})
	e.Tick(0)

	e.SetLimit(300)
	s := e.State()
	if s.Position != 300 || s.TargetPosition != 300 {
		t.Errorf("Position/Target = %f/%f, want 300/300", s.Position, s.TargetPosition)
	}
	if !e.Tick(frameDT) {
		t.Error("Tick() = false after the limit moved")
	}
	if v := e.State().Velocity; v != 0 {
		t.Errorf("Velocity = %f, want 0 after a limit clamp", v)
	}

	e.SetLimit(-10)
	if got := e.State().Limit; got != 0 {
		t.Errorf("Limit = %f, want 0 for a negative limit", got)
	}
}

func TestScrollEngineInstantDuration(t *testing.T) {
	e := NewScrollEngine(EngineConfig{Duration: -1})
	e.SetLimit(1000)
	e.AddDelta(250, InputWheel)
	e.Tick(frameDT)
	if got := e.State().Position; got != 250 {
		t.Errorf("Position = %f, want 250 with no smoothing", got)
	}
}

func TestScrollStateProgress(t *testing.T) {
	tests := []struct {
		s    ScrollState
		want float64
	}{
		{ScrollState{Position: 50, Limit: 100}, 0.5},
		{ScrollState{Position: 0, Limit: 0}, 0},
		{ScrollState{Position: 100, Limit: 100}, 1},
	}
	for _, tt := range tests {
		if got := tt.s.Progress(); got != tt.want {
			t.Errorf("Progress(%+v) = %f, want %f", tt.s, got, tt.want)
		}
	}
}
