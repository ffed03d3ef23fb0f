package scrollfx

import (
	"errors"
	"fmt"
	"testing"
)

func newTakeoverRig(t *testing.T, width float64, touch bool, cfg TakeoverConfig) (*testRig, *Takeover) {
	t.Helper()
	r := newTestRig(newGalleryPage(), width, 800)
	r.env.Touch = touch
	tk, err := NewTakeover(r.page, r.reg, r.loop, r.env, r.clock, cfg)
	if err != nil {
		t.Fatalf("NewTakeover: %v", err)
	}
	return r, tk
}

func galleryTrack(r *testRig) *Element {
	el, _ := r.page.ByID("gallery-track")
	return el
}

func TestTakeoverPinnedRegion(t *testing.T) {
	r, tk := newTakeoverRig(t, 1280, false, DefaultTakeoverConfig())
	if tk.Mode() != TakeoverPinned {
		t.Fatalf("Mode() = %v, want pinned", tk.Mode())
	}
	reg := tk.Region()
	if reg.TrackLength != 2720 || reg.ViewportWidth != 1280 {
		t.Errorf("TrackLength/ViewportWidth = %f/%f, want 2720/1280", reg.TrackLength, reg.ViewportWidth)
	}
	if reg.Distance != 1440 {
		t.Errorf("Distance = %f, want 1440", reg.Distance)
	}
	if reg.ScrollRange != [2]float64{1000, 2440} {
		t.Errorf("ScrollRange = %v, want [1000 2440]", reg.ScrollRange)
	}
	if reg.SectionBounds.Y != 1000 || reg.SectionBounds.Height != 800 {
		t.Errorf("SectionBounds = %+v, want Y 1000 height 800", reg.SectionBounds)
	}

	trig := tk.Trigger()
	end, _ := trig.End()
	if got := end - trig.Start(); got != reg.Distance {
		t.Errorf("pin interval = %f, want Distance %f", got, reg.Distance)
	}
	if h := r.page.Height(); h != 2800+1440 {
		t.Errorf("Height() = %f, want 4240", h)
	}
	if lim := r.eng.State().Limit; lim != 3440 {
		t.Errorf("Limit = %f, want 3440", lim)
	}
}

func TestTakeoverTrackFollowsProgress(t *testing.T) {
	r, _ := newTakeoverRig(t, 1280, false, DefaultTakeoverConfig())
	track := galleryTrack(r)
	gallery, _ := r.page.ByID("gallery")

	tests := []struct {
		pos, offset float64
	}{
		{500, 0},
		{1000, 0},
		{1720, -720},
		{2440, -1440},
		{3000, -1440},
		{1000, 0},
	}
	for _, tt := range tests {
		r.jump(tt.pos)
		if !approxEqual(track.OffsetX, tt.offset, epsilon) {
			t.Errorf("OffsetX at %f = %f, want %f", tt.pos, track.OffsetX, tt.offset)
		}
	}

	r.jump(1720)
	if y := gallery.ScreenRect(1720).Y; y != 0 {
		t.Errorf("gallery ScreenRect.Y while pinned = %f, want 0", y)
	}
	card, _ := r.page.ByID("card-5")
	if x := card.ScreenRect(1720).X; x != 5*460-720 {
		t.Errorf("card-5 ScreenRect.X = %f, want %f", x, float64(5*460-720))
	}
}

func TestTakeoverTrailingPadding(t *testing.T) {
	cfg := DefaultTakeoverConfig()
	cfg.TrailingPadding = 80
	_, tk := newTakeoverRig(t, 1280, false, cfg)
	if d := tk.Region().Distance; d != 1520 {
		t.Errorf("Distance = %f, want 1520", d)
	}
}

func TestTakeoverZeroWidthTrack(t *testing.T) {
	cfg := DefaultTakeoverConfig()
	cfg.CardClass = "missing"
	r, tk := newTakeoverRig(t, 1280, false, cfg)
	if d := tk.Region().Distance; d != 0 {
		t.Errorf("Distance = %f, want 0", d)
	}
	if h := r.page.Height(); h != 2800 {
		t.Errorf("Height() = %f, want 2800 with no pin spacing", h)
	}
	r.jump(1500)
	if off := galleryTrack(r).OffsetX; off != 0 {
		t.Errorf("OffsetX = %f, want 0", off)
	}
}

func TestTakeoverTrackNarrowerThanViewport(t *testing.T) {
	_, tk := newTakeoverRig(t, 3000, false, DefaultTakeoverConfig())
	if d := tk.Region().Distance; d != 0 {
		t.Errorf("Distance = %f, want 0", d)
	}
}

func TestTakeoverMissingElements(t *testing.T) {
	r := newTestRig(newFlowPage(1000), 1280, 800)
	_, err := NewTakeover(r.page, r.reg, r.loop, r.env, r.clock, DefaultTakeoverConfig())
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
	if n := len(r.reg.Triggers()); n != 0 {
		t.Errorf("Triggers() = %d, want 0", n)
	}
}

func TestTakeoverNativeFallback(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		touch bool
	}{
		{"narrow", 600, false},
		{"touch", 1280, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, tk := newTakeoverRig(t, tt.width, tt.touch, DefaultTakeoverConfig())
			if tk.Mode() != TakeoverNative {
				t.Fatalf("Mode() = %v, want native", tk.Mode())
			}
			if tk.Trigger() != nil {
				t.Error("Trigger() != nil in native mode")
			}
			if h := r.page.Height(); h != 2800 {
				t.Errorf("Height() = %f, want 2800", h)
			}
			r.jump(1500)
			if off := galleryTrack(r).OffsetX; off != 0 {
				t.Errorf("OffsetX = %f, want 0: vertical scroll must not move the track", off)
			}
			dot, _ := r.page.ByID("dot-0")
			if !dot.Visible {
				t.Error("indicator dots hidden in native mode")
			}
		})
	}
}

func TestTakeoverNativeSnap(t *testing.T) {
	r, tk := newTakeoverRig(t, 600, false, DefaultTakeoverConfig())
	container := tk.Container()

	want := []float64{0, 460, 920, 1380, 1840, 2120}
	pts := tk.SnapPoints()
	if len(pts) != len(want) {
		t.Fatalf("SnapPoints() = %v, want %v", pts, want)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("SnapPoints()[%d] = %f, want %f", i, pts[i], want[i])
		}
	}

	tk.ScrollBy(300)
	r.frames(1)
	if container.ScrollX != 300 {
		t.Errorf("ScrollX while dragging = %f, want 300", container.ScrollX)
	}
	tk.Release()
	if !tk.Snapping() {
		t.Fatal("Snapping() = false after release")
	}
	r.frames(1)
	if x := container.ScrollX; x <= 300 || x >= 460 {
		t.Errorf("ScrollX one frame into the snap = %f, want between 300 and 460", x)
	}
	r.frames(30)
	if container.ScrollX != 460 || tk.Snapping() {
		t.Errorf("ScrollX/Snapping() after the snap = %f/%v, want 460/false", container.ScrollX, tk.Snapping())
	}

	tk.ScrollBy(1e6)
	if container.ScrollX > 2120 {
		t.Errorf("ScrollX = %f, want <= 2120", container.ScrollX)
	}
}

func TestTakeoverIndicatorPolls(t *testing.T) {
	r, tk := newTakeoverRig(t, 600, false, DefaultTakeoverConfig())
	var got []Indicator
	tk.OnIndicator(func(ind Indicator) { got = append(got, ind) })

	tk.ScrollBy(900)
	tk.Release()
	r.frames(3)
	if len(got) != 0 {
		t.Errorf("indicator changed before the poll interval: %v", got)
	}
	r.frames(120)
	if tk.Indicator().Active != 2 || tk.Indicator().Count != 6 {
		t.Errorf("Indicator() = %+v, want active 2 of 6", tk.Indicator())
	}
	if len(got) == 0 || got[len(got)-1].Active != 2 {
		t.Errorf("OnIndicator calls = %v, want last active 2", got)
	}
	for i := 0; i < 6; i++ {
		dot, _ := r.page.ByID(fmt.Sprintf("dot-%d", i))
		want := 0.35
		if i == 2 {
			want = 1
		}
		if dot.Alpha != want {
			t.Errorf("dot-%d Alpha = %f, want %f", i, dot.Alpha, want)
		}
	}
}

func TestTakeoverIgnoresHorizontalInputWhenPinned(t *testing.T) {
	r, tk := newTakeoverRig(t, 1280, false, DefaultTakeoverConfig())
	tk.ScrollBy(300)
	tk.Release()
	r.frames(10)
	if x := tk.Container().ScrollX; x != 0 {
		t.Errorf("ScrollX = %f, want 0 in pinned mode", x)
	}
}

func TestTakeoverResizeDebounced(t *testing.T) {
	r, tk := newTakeoverRig(t, 1280, false, DefaultTakeoverConfig())
	before := r.reg.Refreshes()

	for _, h := range []float64{780, 760, 740, 720, 700} {
		r.env.View.Height = h
		tk.HandleResize(r.env.View)
		r.frames(3)
		if n := r.reg.Refreshes() - before; n != 0 {
			t.Fatalf("refreshes during the burst = %d, want 0", n)
		}
	}
	if !tk.RefreshPending() {
		t.Fatal("RefreshPending() = false during the burst")
	}
	r.frames(20)
	if n := r.reg.Refreshes() - before; n != 1 {
		t.Errorf("refreshes after settling = %d, want 1", n)
	}
	if tk.RefreshPending() {
		t.Error("RefreshPending() = true after settling")
	}
	if vh := r.reg.Viewport().Height; vh != 700 {
		t.Errorf("registry viewport height = %f, want 700", vh)
	}
	if lim := r.eng.State().Limit; lim != 4240-700 {
		t.Errorf("Limit = %f, want %f", lim, 4240.0-700)
	}
}

func TestTakeoverResizeSwitchesMode(t *testing.T) {
	r, tk := newTakeoverRig(t, 1280, false, DefaultTakeoverConfig())
	r.jump(1720)

	r.page.SetViewportWidth(600)
	tk.HandleResize(Viewport{Width: 600, Height: 800, DeviceScale: 1})
	r.frames(20)
	if tk.Mode() != TakeoverNative || tk.Trigger() != nil {
		t.Fatalf("Mode() = %v, Trigger() = %v, want native and nil", tk.Mode(), tk.Trigger())
	}
	if h := r.page.Height(); h != 2800 {
		t.Errorf("Height() in native mode = %f, want 2800", h)
	}
	if off := galleryTrack(r).OffsetX; off != 0 {
		t.Errorf("OffsetX in native mode = %f, want 0", off)
	}

	r.page.SetViewportWidth(1280)
	tk.HandleResize(Viewport{Width: 1280, Height: 800, DeviceScale: 1})
	r.frames(20)
	if tk.Mode() != TakeoverPinned || tk.Trigger() == nil {
		t.Fatalf("Mode() = %v, want pinned with a trigger", tk.Mode())
	}
	if h := r.page.Height(); h != 4240 {
		t.Errorf("Height() after re-pinning = %f, want 4240", h)
	}
	if x := tk.Container().ScrollX; x != 0 {
		t.Errorf("ScrollX after re-pinning = %f, want 0", x)
	}
}

func TestTakeoverInvalidateRemeasures(t *testing.T) {
	r, tk := newTakeoverRig(t, 1280, false, DefaultTakeoverConfig())
	card, _ := r.page.ByID("card-5")
	card.Box.Width = 500

	tk.Invalidate()
	r.frames(20)
	if d := tk.Region().Distance; d != 1520 {
		t.Errorf("Distance after invalidate = %f, want 1520", d)
	}
	if h := r.page.Height(); h != 2800+1520 {
		t.Errorf("Height() = %f, want 4320", h)
	}
}

func TestTakeoverClose(t *testing.T) {
	r, tk := newTakeoverRig(t, 1280, false, DefaultTakeoverConfig())
	subs := r.loop.Subscribers()
	r.jump(1720)

	tk.HandleResize(r.env.View)
	tk.Close()
	tk.Close()
	if tk.Trigger() != nil {
		t.Error("Trigger() != nil after Close")
	}
	if h := r.page.Height(); h != 2800 {
		t.Errorf("Height() after Close = %f, want 2800", h)
	}
	if got := r.loop.Subscribers(); got != subs-1 {
		t.Errorf("Subscribers() = %d, want %d", got, subs-1)
	}
	if tk.RefreshPending() {
		t.Error("RefreshPending() = true after Close")
	}
	if off := galleryTrack(r).OffsetX; off != 0 {
		t.Errorf("OffsetX after Close = %f, want 0", off)
	}

	var nilTakeover *Takeover
	nilTakeover.Close()
}
