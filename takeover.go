package scrollfx

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TakeoverConfig configures the horizontal gallery takeover.
type TakeoverConfig struct {
	Section   string `yaml:"section"`
	Container string `yaml:"container"`
	Track     string `yaml:"track"`
	CardClass string `yaml:"card_class"`
	// DotClass marks the indicator dots shown in native mode.
	DotClass string `yaml:"dot_class"`
	// TrailingPadding is added after the last card when measuring the track.
	TrailingPadding float64 `yaml:"trailing_padding"`
	// NarrowWidth is the viewport width below which scroll is not hijacked.
	NarrowWidth float64 `yaml:"narrow_width"`
	// Settle is the resize debounce window.
	Settle time.Duration `yaml:"settle"`
	// PollInterval is how often native mode samples the container offset
	// for the indicator.
	PollInterval time.Duration `yaml:"poll_interval"`
	// SnapDuration is the length of the native snap animation in seconds.
	SnapDuration float32 `yaml:"snap_duration"`
	// SnapEase eases the native snap. Defaults to ease.OutCubic.
	SnapEase ease.TweenFunc `yaml:"-"`
}

// DefaultTakeoverConfig returns the gallery defaults.
func DefaultTakeoverConfig() TakeoverConfig {
	return TakeoverConfig{
		Section:      "gallery",
		Container:    "gallery-viewport",
		Track:        "gallery-track",
		CardClass:    "gallery-card",
		DotClass:     "gallery-dot",
		NarrowWidth:  768,
		Settle:       250 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
		SnapDuration: 0.35,
		SnapEase:     ease.OutCubic,
	}
}

// TakeoverMode is the active viewport policy.
type TakeoverMode uint8

const (
	TakeoverPinned TakeoverMode = iota // vertical scroll drives the track
	TakeoverNative                     // container scrolls horizontally with snap
)

func (m TakeoverMode) String() string {
	if m == TakeoverNative {
		return "native"
	}
	return "pinned"
}

// PinRegion is the measured geometry of the pinned gallery.
type PinRegion struct {
	SectionBounds Rect
	TrackLength   float64
	ViewportWidth float64
	// Distance is the horizontal travel, max(0, TrackLength-ViewportWidth).
	Distance float64
	// ScrollRange is the [start, end] vertical scroll interval of the pin.
	ScrollRange [2]float64
}

// Indicator is the native-mode position readout.
type Indicator struct {
	Active int
	Count  int
}

// Takeover pins the gallery section and maps vertical scroll progress to
// horizontal track translation. On narrow or touch viewports it leaves the
// page scroll alone and lets the container scroll natively with snap.
type Takeover struct {
	cfg  TakeoverConfig
	page *Page
	reg  *Registry
	env  Environment

	section, container, track *Element
	cards                     []*Element
	dots                      []*Element

	mode     TakeoverMode
	trigger  *Trigger
	region   PinRegion
	viewport Viewport

	scrollX     float64 // native container offset
	snap        *gween.Tween
	snapTo      float64
	dragging    bool
	pollElapsed float64
	indicator   Indicator
	onIndicator func(Indicator)

	debounce   *Debouncer
	frameSub   Handle
	refreshSub Handle
	closed     bool
}

// NewTakeover wires the gallery. It returns ErrElementNotFound when the
// section, container or track is missing.
func NewTakeover(page *Page, reg *Registry, loop *RenderLoop, env Environment, clock Clock, cfg TakeoverConfig) (*Takeover, error) {
	def := DefaultTakeoverConfig()
	if cfg.CardClass == "" {
		cfg.CardClass = def.CardClass
	}
	if cfg.NarrowWidth <= 0 {
		cfg.NarrowWidth = def.NarrowWidth
	}
	if cfg.Settle <= 0 {
		cfg.Settle = def.Settle
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.SnapDuration <= 0 {
		cfg.SnapDuration = def.SnapDuration
	}
	if cfg.SnapEase == nil {
		cfg.SnapEase = def.SnapEase
	}

	section, err := page.Require(cfg.Section)
	if err != nil {
		return nil, err
	}
	container, err := page.Require(cfg.Container)
	if err != nil {
		return nil, err
	}
	track, err := page.Require(cfg.Track)
	if err != nil {
		return nil, err
	}

	t := &Takeover{
		cfg:       cfg,
		page:      page,
		reg:       reg,
		env:       env,
		section:   section,
		container: container,
		track:     track,
		viewport:  env.Viewport(),
	}
	for _, el := range page.ByClass(cfg.CardClass) {
		if isDescendant(el, track) {
			t.cards = append(t.cards, el)
		}
	}
	if cfg.DotClass != "" {
		for _, el := range page.ByClass(cfg.DotClass) {
			if isDescendant(el, section) {
				t.dots = append(t.dots, el)
			}
		}
	}
	t.indicator.Count = len(t.cards)
	t.debounce = NewDebouncer(clock, cfg.Settle, t.refresh)
	t.refreshSub = reg.OnRefresh(func() { t.region = t.Measure() })

	t.mode = t.policy()
	if t.mode == TakeoverPinned {
		if err := t.pin(); err != nil {
			t.refreshSub.Remove()
			return nil, err
		}
	}
	t.showDots(t.mode == TakeoverNative)
	if loop != nil {
		t.frameSub = loop.Add(t.frame)
	}
	return t, nil
}

// Mode returns the active viewport policy.
func (t *Takeover) Mode() TakeoverMode { return t.mode }

// Region returns the geometry measured at the last refresh.
func (t *Takeover) Region() PinRegion { return t.region }

// Trigger returns the pin trigger, or nil in native mode.
func (t *Takeover) Trigger() *Trigger { return t.trigger }

// Indicator returns the last polled native-mode position.
func (t *Takeover) Indicator() Indicator { return t.indicator }

// OnIndicator registers fn to run when the polled active card changes.
func (t *Takeover) OnIndicator(fn func(Indicator)) { t.onIndicator = fn }

// Container returns the horizontal scroll container.
func (t *Takeover) Container() *Element { return t.container }

// HandleResize records the new viewport and schedules a debounced refresh.
func (t *Takeover) HandleResize(vp Viewport) {
	if t.closed {
		return
	}
	t.viewport = vp
	t.debounce.Trigger()
}

// Invalidate schedules a debounced refresh after a content reflow such as
// a late image load.
func (t *Takeover) Invalidate() {
	if !t.closed {
		t.debounce.Trigger()
	}
}

// RefreshPending reports whether a debounced refresh is waiting.
func (t *Takeover) RefreshPending() bool { return t.debounce.Pending() }

// Measure computes the track length and horizontal travel from current
// geometry. Zero-width tracks and tracks narrower than the container give
// a zero distance.
func (t *Takeover) Measure() PinRegion {
	trackLen := t.track.Box.Width
	if len(t.cards) > 0 {
		right := 0.0
		for _, c := range t.cards {
			right = math.Max(right, c.Box.Right())
		}
		trackLen = right + t.cfg.TrailingPadding
	}
	trackLen = math0(trackLen)
	vw := t.container.Box.Width
	if vw <= 0 {
		vw = t.viewport.Width
	}
	vw = math0(vw)

	r := PinRegion{
		SectionBounds: t.section.DocumentRect(),
		TrackLength:   trackLen,
		ViewportWidth: vw,
		Distance:      math.Max(0, trackLen-vw),
	}
	if t.trigger != nil {
		r.ScrollRange = [2]float64{t.trigger.Start(), t.trigger.Start() + r.Distance}
	}
	return r
}

func (t *Takeover) policy() TakeoverMode {
	if t.viewport.Width < t.cfg.NarrowWidth || t.env.TouchCapable() {
		return TakeoverNative
	}
	return TakeoverPinned
}

func (t *Takeover) pin() error {
	trig, err := t.reg.Register(TriggerConfig{
		Name:    "takeover",
		Element: t.section,
		Pin:     true,
		PinLength: func() float64 {
			return t.Measure().Distance
		},
		OnUpdate: func(_ *Trigger, progress float64) {
			t.track.OffsetX = finite(-t.region.Distance * progress)
		},
	})
	if err != nil {
		return err
	}
	t.trigger = trig
	t.region = t.Measure()
	return nil
}

func (t *Takeover) unpin() {
	if t.trigger != nil {
		t.trigger.Kill()
		t.trigger = nil
	}
	t.track.OffsetX = 0
	t.region = t.Measure()
}

// refresh runs once per settled resize: re-apply the viewport policy, then
// re-measure every trigger.
func (t *Takeover) refresh() {
	if t.closed {
		return
	}
	t.reg.SetViewport(t.viewport)
	switch next := t.policy(); {
	case next == TakeoverNative && t.mode == TakeoverPinned:
		t.mode = next
		t.unpin()
	case next == TakeoverPinned && t.mode == TakeoverNative:
		t.mode = next
		t.jumpTo(0)
		t.container.ScrollX = 0
		if err := t.pin(); err != nil {
			t.mode = TakeoverNative
		}
	}
	t.showDots(t.mode == TakeoverNative)
	t.reg.Refresh()
	if t.mode == TakeoverNative {
		snapping := t.snap != nil
		t.jumpTo(clamp(t.scrollX, 0, t.nativeMax()))
		if snapping {
			t.startSnap()
		}
	}
}

// ScrollBy moves the native container by dx pixels (drag or horizontal
// wheel). Ignored in pinned mode.
func (t *Takeover) ScrollBy(dx float64) {
	if t.mode != TakeoverNative || t.closed {
		return
	}
	t.dragging = true
	t.jumpTo(clamp(t.scrollX+dx, 0, t.nativeMax()))
}

// Release ends a native drag and animates to the nearest card.
func (t *Takeover) Release() {
	if t.mode != TakeoverNative || !t.dragging {
		return
	}
	t.dragging = false
	t.startSnap()
}

func (t *Takeover) startSnap() {
	to := t.snapTarget(t.scrollX)
	if to == t.scrollX {
		return
	}
	t.snapTo = to
	t.snap = gween.New(float32(t.scrollX), float32(to), t.cfg.SnapDuration, t.cfg.SnapEase)
}

// Snapping reports whether a native snap animation is running.
func (t *Takeover) Snapping() bool { return t.snap != nil }

// jumpTo sets the native offset and cancels any snap in flight.
func (t *Takeover) jumpTo(x float64) {
	t.scrollX = x
	t.snap = nil
}

// SnapPoints returns the native scroll offsets that align each card.
func (t *Takeover) SnapPoints() []float64 {
	max := t.nativeMax()
	pts := make([]float64, 0, len(t.cards))
	if len(t.cards) == 0 {
		return pts
	}
	origin := t.cards[0].Box.X
	for _, c := range t.cards {
		pts = append(pts, clamp(c.Box.X-origin, 0, max))
	}
	return pts
}

func (t *Takeover) nativeMax() float64 {
	return t.Measure().Distance
}

func (t *Takeover) snapTarget(x float64) float64 {
	pts := t.SnapPoints()
	if len(pts) == 0 {
		return clamp(x, 0, t.nativeMax())
	}
	return pts[nearestIndex(pts, x)]
}

func nearestIndex(pts []float64, x float64) int {
	best, bestD := 0, math.Inf(1)
	for i, p := range pts {
		if d := math.Abs(p - x); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func (t *Takeover) frame(f Frame) {
	if t.closed {
		return
	}
	t.debounce.Poll()
	if t.mode != TakeoverNative {
		return
	}
	if t.snap != nil && !t.dragging {
		v, done := t.snap.Update(float32(f.Delta))
		t.scrollX = float64(v)
		if done {
			t.scrollX = t.snapTo
			t.snap = nil
		}
	}
	t.container.ScrollX = t.scrollX

	t.pollElapsed += f.Delta
	if t.pollElapsed < t.cfg.PollInterval.Seconds() {
		return
	}
	t.pollElapsed = 0
	t.pollIndicator()
}

// pollIndicator samples the container offset (not the scroll engine) and
// updates the dots.
func (t *Takeover) pollIndicator() {
	pts := t.SnapPoints()
	if len(pts) == 0 {
		return
	}
	active := nearestIndex(pts, t.container.ScrollX)
	if active == t.indicator.Active {
		return
	}
	t.indicator.Active = active
	for i, d := range t.dots {
		if i == active {
			d.Alpha = 1
		} else {
			d.Alpha = 0.35
		}
	}
	if t.onIndicator != nil {
		t.onIndicator(t.indicator)
	}
}

func (t *Takeover) showDots(show bool) {
	for i, d := range t.dots {
		d.Visible = show
		if i == t.indicator.Active {
			d.Alpha = 1
		} else {
			d.Alpha = 0.35
		}
	}
}

// Close removes the pin, the frame subscription and any pending refresh.
// Safe to call more than once.
func (t *Takeover) Close() {
	if t == nil || t.closed {
		return
	}
	t.unpin()
	t.closed = true
	t.frameSub.Remove()
	t.refreshSub.Remove()
	t.debounce.Cancel()
	t.container.ScrollX = 0
	t.showDots(false)
}

func isDescendant(el, ancestor *Element) bool {
	for p := el.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
