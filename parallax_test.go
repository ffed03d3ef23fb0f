package scrollfx

import (
	"errors"
	"testing"
)

// newParallaxRig puts two parallax blobs spanning the second section, so
// both travel from scroll 200 to 2000.
func newParallaxRig(reduced bool) *testRig {
	p := newFlowPage(1000, 1000, 1000)
	s1, _ := p.ByID("s1")
	s1.AddChild(NewElement("blob-a", Rect{Width: 300, Height: 1000}, "parallax"))
	s1.AddChild(NewElement("blob-b", Rect{X: 600, Width: 300, Height: 1000}, "parallax"))
	r := newTestRig(p, 1280, 800)
	r.env.Reduced = reduced
	return r
}

func TestParallaxOffsetTracksProgress(t *testing.T) {
	r := newParallaxRig(false)
	cfg := DefaultParallaxConfig()
	cfg.Speeds = map[string]float64{"blob-b": -0.3}
	if _, err := NewParallax(r.page, r.reg, r.env, cfg); err != nil {
		t.Fatalf("NewParallax: %v", err)
	}
	a, _ := r.page.ByID("blob-a")
	b, _ := r.page.ByID("blob-b")

	tests := []struct {
		pos   float64
		wantA float64
		wantB float64
	}{
		{200, -135, 270},
		{1100, 0, 0},
		{2000, 135, -270},
		{1550, 67.5, -135},
	}
	for _, tt := range tests {
		r.jump(tt.pos)
		if !approxEqual(a.ParallaxY, tt.wantA, 1e-9) {
			t.Errorf("blob-a ParallaxY at %f = %f, want %f", tt.pos, a.ParallaxY, tt.wantA)
		}
		if !approxEqual(b.ParallaxY, tt.wantB, 1e-9) {
			t.Errorf("blob-b ParallaxY at %f = %f, want %f", tt.pos, b.ParallaxY, tt.wantB)
		}
	}
}

func TestParallaxDisabled(t *testing.T) {
	r := newParallaxRig(true)
	if _, err := NewParallax(r.page, r.reg, r.env, DefaultParallaxConfig()); !errors.Is(err, ErrReducedMotion) {
		t.Errorf("reduced motion: err = %v, want ErrReducedMotion", err)
	}
	if n := len(r.reg.Triggers()); n != 0 {
		t.Errorf("Triggers() = %d, want 0", n)
	}

	r = newTestRig(newFlowPage(1000), 1280, 800)
	if _, err := NewParallax(r.page, r.reg, r.env, DefaultParallaxConfig()); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("no elements: err = %v, want ErrElementNotFound", err)
	}
}

func TestParallaxClose(t *testing.T) {
	r := newParallaxRig(false)
	p, _ := NewParallax(r.page, r.reg, r.env, DefaultParallaxConfig())
	r.jump(1800)
	p.Close()
	a, _ := r.page.ByID("blob-a")
	if a.ParallaxY != 0 {
		t.Errorf("ParallaxY after Close = %f, want 0", a.ParallaxY)
	}
	r.jump(400)
	if a.ParallaxY != 0 {
		t.Errorf("ParallaxY after scrolling a closed effect = %f, want 0", a.ParallaxY)
	}
}
