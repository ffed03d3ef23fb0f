package scrollfx

import (
	"math"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{64, 64},
		{65, 128},
		{1000, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestBlurPasses(t *testing.T) {
	tests := []struct {
		radius, want int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{10, 4},
	}
	for _, tt := range tests {
		if got := blurPasses(tt.radius); got != tt.want {
			t.Errorf("blurPasses(%d) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestBlurPadding(t *testing.T) {
	rect := Rect{Width: 100, Height: 50}
	tests := []struct {
		name   string
		setup  func(el *Element)
		px, py float64
	}{
		{"plain", func(el *Element) {}, 0, 0},
		{"blur only", func(el *Element) { el.Blur = 4.2 }, 5, 5},
		{"motion blur wins", func(el *Element) { el.Blur, el.MotionBlur = 2, 4.2 }, 5, 5},
		{"scaled up", func(el *Element) { el.Blur, el.ScaleX = 4.2, 1.5 }, 30, 5},
		{"scaled down", func(el *Element) { el.ScaleX, el.ScaleY = 0.5, 0.5 }, 0, 0},
		{"skewed", func(el *Element) { el.SkewX = math.Atan(0.5) }, 13, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := NewElement("", rect)
			tt.setup(el)
			px, py := blurPadding(el, rect)
			if px != tt.px || py != tt.py {
				t.Errorf("blurPadding = (%f, %f), want (%f, %f)", px, py, tt.px, tt.py)
			}
		})
	}
}

func TestKawaseBlurResize(t *testing.T) {
	var k kawaseBlur
	k.resize(blurPasses(10))
	if n := len(k.temps); n != 4 {
		t.Fatalf("temps = %d, want 4", n)
	}
	k.resize(blurPasses(2))
	if n := len(k.temps); n != 1 {
		t.Errorf("temps after a smaller radius = %d, want 1", n)
	}
	if n := cap(k.temps); n < 4 {
		t.Errorf("cap(temps) = %d, want the slots kept for reuse", n)
	}
	k.dispose()
	if n := len(k.temps); n != 0 {
		t.Errorf("temps after dispose = %d, want 0", n)
	}
}

func TestPoolKey(t *testing.T) {
	if poolKey(2, 4) == poolKey(4, 2) {
		t.Error("poolKey(2, 4) == poolKey(4, 2)")
	}
	if got := poolKey(1, 1); got != 1<<32|1 {
		t.Errorf("poolKey(1, 1) = %d, want %d", got, uint64(1<<32|1))
	}
}
