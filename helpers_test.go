package scrollfx

import (
	"fmt"
	"math"
	"time"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// testRig wires an engine, registry and loop over a page without a Site.
type testRig struct {
	page   *Page
	env    *StaticEnvironment
	clock  *ManualClock
	queue  *FrameQueue
	eng    *ScrollEngine
	reg    *Registry
	loop   *RenderLoop
	events *EventHub
}

func newTestRig(page *Page, w, h float64) *testRig {
	env := &StaticEnvironment{View: Viewport{Width: w, Height: h, DeviceScale: 1}}
	page.SetViewportWidth(w)
	r := &testRig{
		page:   page,
		env:    env,
		clock:  NewManualClock(testStart),
		queue:  &FrameQueue{},
		eng:    NewScrollEngine(EngineConfig{}),
		events: &EventHub{},
	}
	r.reg = NewRegistry(page, r.eng, env.View)
	r.reg.OnRefresh(r.syncLimit)
	r.syncLimit()
	r.loop = NewRenderLoop(r.queue, r.eng, LoopConfig{})
	r.loop.Start()
	return r
}

func (r *testRig) syncLimit() {
	r.eng.SetLimit(r.page.ScrollLimit(r.reg.Viewport().Height))
}

// jump moves the engine straight to pos and evaluates triggers.
func (r *testRig) jump(pos float64) {
	r.eng.ScrollTo(pos, ScrollToOptions{Immediate: true})
	r.eng.Tick(0)
}

// frames advances the clock 16ms per frame and flushes n frames.
func (r *testRig) frames(n int) {
	for i := 0; i < n; i++ {
		r.clock.Advance(16 * time.Millisecond)
		r.queue.Flush(r.clock.Now())
	}
}

// newFlowPage creates sections s0, s1... with the given heights.
func newFlowPage(heights ...float64) *Page {
	p := NewPage()
	for i, h := range heights {
		s := NewElement(fmt.Sprintf("s%d", i), Rect{Height: h})
		s.Fluid = true
		p.AddSection(s)
	}
	return p
}

// newGalleryPage builds hero, gallery and footer sections. The gallery
// holds a fluid container with a track of six 420px cards spaced 460px
// apart, so the track is 2720px long.
func newGalleryPage() *Page {
	p := NewPage()
	p.AddSection(NewElement("hero", Rect{Height: 1000}))

	gallery := NewElement("gallery", Rect{Height: 800})
	container := NewElement("gallery-viewport", Rect{Y: 100, Height: 600})
	container.Fluid = true
	container.Clip = true
	track := NewElement("gallery-track", Rect{Height: 600})
	for i := 0; i < 6; i++ {
		track.AddChild(NewElement(fmt.Sprintf("card-%d", i),
			Rect{X: float64(i) * 460, Width: 420, Height: 600}, "gallery-card", "link"))
	}
	container.AddChild(track)
	gallery.AddChild(container)
	for i := 0; i < 6; i++ {
		gallery.AddChild(NewElement(fmt.Sprintf("dot-%d", i),
			Rect{X: float64(i) * 20, Y: 740, Width: 10, Height: 10}, "gallery-dot"))
	}
	p.AddSection(gallery)

	p.AddSection(NewElement("footer", Rect{Height: 1000}))
	return p
}

// recordStore collects trigger events.
type recordStore struct {
	events []TriggerEvent
}

func (s *recordStore) EmitTrigger(ev TriggerEvent) { s.events = append(s.events, ev) }
