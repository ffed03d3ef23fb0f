package scrollfx

import (
	"errors"
	"math"
	"testing"
)

func newVelocityRig(reduced bool) (*testRig, *Element) {
	p := newFlowPage(5000)
	s0, _ := p.ByID("s0")
	el := NewElement("heading", Rect{X: 100, Y: 100, Width: 600, Height: 120}, "velocity")
	s0.AddChild(el)
	r := newTestRig(p, 1280, 800)
	r.env.Reduced = reduced
	return r, el
}

func TestVelocitySkewFollowsScroll(t *testing.T) {
	r, el := newVelocityRig(false)
	cfg := DefaultVelocityConfig()
	v, err := NewVelocityEffect(r.page, r.loop, r.env, cfg)
	if err != nil {
		t.Fatalf("NewVelocityEffect: %v", err)
	}

	r.frames(5)
	if v.Writes() != 0 {
		t.Errorf("Writes() = %d while still, want 0", v.Writes())
	}

	r.eng.AddDelta(3000, InputWheel)
	peak := 0.0
	for i := 0; i < 30; i++ {
		r.frames(1)
		if math.Abs(el.SkewX) > cfg.MaxSkew {
			t.Fatalf("frame %d: SkewX = %f, exceeds MaxSkew %f", i, el.SkewX, cfg.MaxSkew)
		}
		if el.SkewX != 0 {
			want := math.Abs(el.SkewX) / cfg.MaxSkew * cfg.MaxBlur
			if !approxEqual(el.MotionBlur, want, 1e-9) {
				t.Fatalf("frame %d: MotionBlur = %f, want %f", i, el.MotionBlur, want)
			}
		}
		peak = math.Max(peak, el.SkewX)
	}
	if peak <= 0 {
		t.Errorf("peak SkewX = %f, want > 0 while scrolling down", peak)
	}
	if !approxEqual(v.Current(), el.SkewX, 1e-12) {
		t.Errorf("Current() = %f, SkewX = %f", v.Current(), el.SkewX)
	}
}

func TestVelocitySettlesToSingleZeroWrite(t *testing.T) {
	r, el := newVelocityRig(false)
	v, _ := NewVelocityEffect(r.page, r.loop, r.env, DefaultVelocityConfig())

	r.eng.AddDelta(2000, InputWheel)
	r.frames(600)
	if el.SkewX != 0 || el.MotionBlur != 0 {
		t.Fatalf("SkewX/MotionBlur = %f/%f after settling, want 0/0", el.SkewX, el.MotionBlur)
	}
	w := v.Writes()
	r.frames(60)
	if v.Writes() != w {
		t.Errorf("Writes() grew by %d while idle, want 0", v.Writes()-w)
	}
}

func TestVelocityNegativeDirection(t *testing.T) {
	r, el := newVelocityRig(false)
	NewVelocityEffect(r.page, r.loop, r.env, DefaultVelocityConfig())
	r.jump(3000)
	r.frames(2)
	r.eng.AddDelta(-2000, InputWheel)
	r.frames(10)
	if el.SkewX >= 0 {
		t.Errorf("SkewX = %f scrolling up, want negative", el.SkewX)
	}
}

func TestVelocityDisabled(t *testing.T) {
	r, _ := newVelocityRig(true)
	if _, err := NewVelocityEffect(r.page, r.loop, r.env, DefaultVelocityConfig()); !errors.Is(err, ErrReducedMotion) {
		t.Errorf("err = %v, want ErrReducedMotion", err)
	}
	if r.loop.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", r.loop.Subscribers())
	}

	r = newTestRig(newFlowPage(1000), 1280, 800)
	if _, err := NewVelocityEffect(r.page, r.loop, r.env, DefaultVelocityConfig()); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
}

func TestVelocityClose(t *testing.T) {
	r, el := newVelocityRig(false)
	v, _ := NewVelocityEffect(r.page, r.loop, r.env, DefaultVelocityConfig())
	r.eng.AddDelta(2000, InputWheel)
	r.frames(10)
	v.Close()
	if el.SkewX != 0 || el.MotionBlur != 0 {
		t.Errorf("SkewX/MotionBlur after Close = %f/%f, want 0/0", el.SkewX, el.MotionBlur)
	}
	if r.loop.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", r.loop.Subscribers())
	}
}
