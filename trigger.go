package scrollfx

import (
	"fmt"
	"sort"
)

// TriggerState is where the scroll position sits relative to a trigger's
// region.
type TriggerState uint8

const (
	TriggerBefore TriggerState = iota // position < start
	TriggerActive                     // start <= position < end
	TriggerAfter                      // position >= end (only with an end edge)
)

func (s TriggerState) String() string {
	switch s {
	case TriggerBefore:
		return "before"
	case TriggerActive:
		return "active"
	case TriggerAfter:
		return "after"
	}
	return fmt.Sprintf("TriggerState(%d)", uint8(s))
}

// TriggerEdge names a boundary crossing.
type TriggerEdge uint8

const (
	EdgeEnter     TriggerEdge = iota // start crossed moving forward
	EdgeLeave                        // end crossed moving forward
	EdgeEnterBack                    // end crossed moving backward
	EdgeLeaveBack                    // start crossed moving backward
)

func (e TriggerEdge) String() string {
	switch e {
	case EdgeEnter:
		return "enter"
	case EdgeLeave:
		return "leave"
	case EdgeEnterBack:
		return "enter-back"
	case EdgeLeaveBack:
		return "leave-back"
	}
	return fmt.Sprintf("TriggerEdge(%d)", uint8(e))
}

// TriggerEvent describes one edge crossing, as published to an EventStore.
type TriggerEvent struct {
	Edge     TriggerEdge
	Trigger  string // TriggerConfig.Name
	Element  string // element name
	Position float64
	Progress float64
}

// EventStore receives every trigger edge after its callback ran. Used to
// bridge trigger events into an external system such as an ECS world.
type EventStore interface {
	EmitTrigger(TriggerEvent)
}

// Anchor names the scroll position at which a point on the element meets
// a point on the viewport. Element and Viewport are fractions of the
// element's and the viewport's height (0 = top, 1 = bottom). The zero
// Anchor is "element top meets viewport top".
type Anchor struct {
	Element  float64 `yaml:"element"`
	Viewport float64 `yaml:"viewport"`
	Pixels   float64 `yaml:"pixels"`
}

// Resolve returns the scroll position for an element rect and viewport height.
func (a Anchor) Resolve(r Rect, viewportHeight float64) float64 {
	return finite(r.Y + a.Element*r.Height - a.Viewport*viewportHeight + a.Pixels)
}

// TriggerConfig declares a scroll-triggered region.
type TriggerConfig struct {
	// Name is used in debug output only.
	Name    string
	Element *Element
	Start   Anchor
	// End is optional; without it the trigger only has a start edge.
	End *Anchor

	// Pin locks Element on screen for PinLength pixels of scroll after
	// Start. The end edge of a pinned trigger is Start+PinLength.
	Pin bool
	// PinLength is consulted on every refresh. Negative or NaN results
	// clamp to zero.
	PinLength func() float64

	OnEnter     func(*Trigger)
	OnLeave     func(*Trigger)
	OnEnterBack func(*Trigger)
	OnLeaveBack func(*Trigger)
	// OnUpdate is the scrub callback: it receives progress in [0, 1] on
	// every evaluation while active and once when leaving either edge.
	OnUpdate func(t *Trigger, progress float64)
}

// Trigger is a registered region. It is also the handle used to remove it.
type Trigger struct {
	cfg TriggerConfig
	reg *Registry
	seq uint32

	start, end float64
	hasEnd     bool
	pinLength  float64
	state      TriggerState
	progress   float64
	killed     bool
}

// Name returns the configured debug name.
func (t *Trigger) Name() string { return t.cfg.Name }

// Element returns the trigger element.
func (t *Trigger) Element() *Element { return t.cfg.Element }

// Start returns the measured start scroll position.
func (t *Trigger) Start() float64 { return t.start }

// End returns the measured end scroll position and whether one exists.
func (t *Trigger) End() (float64, bool) { return t.end, t.hasEnd }

// State returns the current state.
func (t *Trigger) State() TriggerState { return t.state }

// Progress returns the last computed progress in [0, 1].
func (t *Trigger) Progress() float64 { return t.progress }

// Pinned reports whether the trigger pins its element.
func (t *Trigger) Pinned() bool { return t.cfg.Pin }

// PinLength returns the pinned scroll distance measured at the last refresh.
func (t *Trigger) PinLength() float64 { return t.pinLength }

// Killed reports whether the trigger has been unregistered.
func (t *Trigger) Killed() bool { return t.killed }

// Kill unregisters the trigger. Safe to call more than once.
func (t *Trigger) Kill() {
	if t.reg != nil {
		t.reg.Unregister(t)
	}
}

// ScrollNotifier is a scroll source that announces position changes.
type ScrollNotifier interface {
	ScrollSource
	OnScroll(fn func(ScrollState)) Handle
}

// Registry evaluates every registered trigger against the scroll position
// each time the scroll engine moves.
type Registry struct {
	page     *Page
	source   ScrollSource
	viewport Viewport

	triggers []*Trigger // registration order
	sorted   []*Trigger // ascending start
	seq      uint32

	lastPos   float64
	hasLast   bool
	forward   bool // direction of the last move
	refreshes int

	refreshHooks listenerList[func()]
	store        EventStore
	sub          Handle
}

// NewRegistry creates a registry that evaluates on every notification from
// src.
func NewRegistry(page *Page, src ScrollNotifier, vp Viewport) *Registry {
	r := &Registry{page: page, source: src, viewport: vp}
	r.sub = src.OnScroll(r.Update)
	return r
}

// Viewport returns the viewport used for measurement.
func (r *Registry) Viewport() Viewport { return r.viewport }

// SetViewport stores a new viewport. Call Refresh to re-measure.
func (r *Registry) SetViewport(vp Viewport) { r.viewport = vp }

// Triggers returns the live triggers in registration order. The returned
// slice MUST NOT be mutated.
func (r *Registry) Triggers() []*Trigger { return r.triggers }

// Refreshes returns how many times Refresh has run.
func (r *Registry) Refreshes() int { return r.refreshes }

// SetEventStore routes every edge crossing to store. Pass nil to detach.
func (r *Registry) SetEventStore(store EventStore) { r.store = store }

// OnRefresh registers fn to run after every refresh re-measure, before
// triggers are re-evaluated.
func (r *Registry) OnRefresh(fn func()) Handle {
	return r.refreshHooks.add(fn)
}

// Register adds a trigger, measures it and evaluates it at the current
// scroll position (firing OnEnter immediately if already past the start).
func (r *Registry) Register(cfg TriggerConfig) (*Trigger, error) {
	if cfg.Element == nil || cfg.Element.Removed() {
		return nil, fmt.Errorf("register trigger %q: %w", cfg.Name, ErrElementNotFound)
	}
	r.seq++
	t := &Trigger{cfg: cfg, reg: r, seq: r.seq}
	r.triggers = append(r.triggers, t)
	if cfg.Pin {
		// Pin spacing moves everything below, so every trigger re-measures.
		r.Refresh()
		return t, nil
	}
	r.measure(t)
	r.sort()
	t.evaluate(r.source.State().Position)
	return t, nil
}

// Unregister removes t. Pinned triggers release their spacing and the
// registry refreshes.
func (r *Registry) Unregister(t *Trigger) {
	if t == nil || t.killed || t.reg != r {
		return
	}
	t.killed = true
	for i, have := range r.triggers {
		if have == t {
			r.triggers = append(r.triggers[:i:i], r.triggers[i+1:]...)
			break
		}
	}
	r.sort()
	if t.cfg.Pin {
		t.cfg.Element.PinY = 0
		r.page.SetPinSpacing(t.cfg.Element, 0)
		r.Refresh()
	}
}

// Close unregisters everything and detaches from the scroll source.
func (r *Registry) Close() {
	r.sub.Remove()
	for _, t := range r.triggers {
		t.killed = true
		if t.cfg.Pin && t.cfg.Element != nil {
			t.cfg.Element.PinY = 0
			r.page.SetPinSpacing(t.cfg.Element, 0)
		}
	}
	r.triggers = nil
	r.sorted = nil
	r.refreshHooks.clear()
}

// Refresh recomputes pin lengths, page layout and every trigger boundary
// from current geometry, runs refresh hooks, then re-evaluates in the
// direction of the last scroll. Callbacks fire only for triggers whose
// state actually changed.
func (r *Registry) Refresh() {
	r.refreshes++
	for _, t := range r.triggers {
		if !t.cfg.Pin {
			continue
		}
		t.pinLength = 0
		if t.cfg.PinLength != nil {
			t.pinLength = math0(t.cfg.PinLength())
		}
		r.page.SetPinSpacing(t.cfg.Element, t.pinLength)
	}
	r.page.Layout()
	for _, t := range r.triggers {
		r.measure(t)
	}
	r.sort()
	r.refreshHooks.each(func(fn func()) { fn() })
	r.evaluate(r.source.State().Position)
}

// measure computes start/end from the element's document rect. Pinned
// elements are measured without their pin spacing.
func (r *Registry) measure(t *Trigger) {
	rect := t.cfg.Element.DocumentRect()
	vh := r.viewport.Height
	t.start = t.cfg.Start.Resolve(rect, vh)
	switch {
	case t.cfg.Pin:
		t.end = t.start + t.pinLength
		t.hasEnd = true
	case t.cfg.End != nil:
		t.end = t.cfg.End.Resolve(rect, vh)
		if t.end < t.start {
			t.end = t.start
		}
		t.hasEnd = true
	default:
		t.end = 0
		t.hasEnd = false
	}
}

func (r *Registry) sort() {
	r.sorted = append(r.sorted[:0:0], r.triggers...)
	sort.SliceStable(r.sorted, func(i, j int) bool {
		if r.sorted[i].start != r.sorted[j].start {
			return r.sorted[i].start < r.sorted[j].start
		}
		return r.sorted[i].seq < r.sorted[j].seq
	})
}

// Update evaluates every trigger for a new scroll state. It is registered
// as the scroll engine listener.
func (r *Registry) Update(s ScrollState) {
	r.evaluate(s.Position)
}

// edgeCrossing is one boundary crossed during an evaluation.
type edgeCrossing struct {
	at   float64
	t    *Trigger
	edge TriggerEdge
}

// evaluate moves every trigger to pos, then fires the crossed edges sorted
// by the boundary they sit on: ascending when moving forward, descending
// when moving backward. Ties keep start order. Scrub callbacks run after
// all edges. An evaluation without movement, as after a refresh, keeps the
// last direction.
func (r *Registry) evaluate(pos float64) {
	forward := !r.hasLast || pos > r.lastPos || (pos == r.lastPos && r.forward)
	r.forward = forward
	r.lastPos = pos
	r.hasLast = true

	var (
		crossed []edgeCrossing
		due     []*Trigger
	)
	n := len(r.sorted)
	for i := 0; i < n; i++ {
		t := r.sorted[i]
		if !forward {
			t = r.sorted[n-1-i]
		}
		if t.killed {
			continue
		}
		var update bool
		crossed, update = t.advance(pos, crossed)
		if update {
			due = append(due, t)
		}
	}
	sort.SliceStable(crossed, func(i, j int) bool {
		if forward {
			return crossed[i].at < crossed[j].at
		}
		return crossed[i].at > crossed[j].at
	})
	for _, c := range crossed {
		c.t.fire(c.edge, pos)
	}
	for _, t := range due {
		t.update()
	}
}

func (t *Trigger) stateAt(pos float64) TriggerState {
	if pos < t.start {
		return TriggerBefore
	}
	if t.hasEnd && pos >= t.end {
		return TriggerAfter
	}
	return TriggerActive
}

func (t *Trigger) progressAt(pos float64) float64 {
	if t.hasEnd && t.end > t.start {
		return clamp01((pos - t.start) / (t.end - t.start))
	}
	if pos >= t.start {
		return 1
	}
	return 0
}

func (t *Trigger) evaluate(pos float64) {
	crossed, update := t.advance(pos, nil)
	for _, c := range crossed {
		t.fire(c.edge, pos)
	}
	if update {
		t.update()
	}
}

// advance moves t to pos without running callbacks. It appends the edges
// crossed on the way to out and reports whether OnUpdate is due.
func (t *Trigger) advance(pos float64, out []edgeCrossing) ([]edgeCrossing, bool) {
	prev := t.state
	next := t.stateAt(pos)
	t.progress = t.progressAt(pos)

	if t.cfg.Pin {
		t.cfg.Element.PinY = clamp(pos-t.start, 0, t.pinLength)
	}
	if next == prev {
		return out, next == TriggerActive
	}
	t.state = next

	add := func(edge TriggerEdge, at float64) {
		out = append(out, edgeCrossing{at: at, t: t, edge: edge})
	}
	switch {
	case prev == TriggerBefore && next == TriggerActive:
		add(EdgeEnter, t.start)
	case prev == TriggerBefore && next == TriggerAfter:
		add(EdgeEnter, t.start)
		add(EdgeLeave, t.end)
	case prev == TriggerActive && next == TriggerAfter:
		add(EdgeLeave, t.end)
	case prev == TriggerAfter && next == TriggerActive:
		add(EdgeEnterBack, t.end)
	case prev == TriggerAfter && next == TriggerBefore:
		add(EdgeEnterBack, t.end)
		add(EdgeLeaveBack, t.start)
	case prev == TriggerActive && next == TriggerBefore:
		add(EdgeLeaveBack, t.start)
	}
	return out, true
}

func (t *Trigger) fire(edge TriggerEdge, pos float64) {
	if t.killed {
		return
	}
	var fn func(*Trigger)
	switch edge {
	case EdgeEnter:
		fn = t.cfg.OnEnter
	case EdgeLeave:
		fn = t.cfg.OnLeave
	case EdgeEnterBack:
		fn = t.cfg.OnEnterBack
	case EdgeLeaveBack:
		fn = t.cfg.OnLeaveBack
	}
	if fn != nil {
		fn(t)
	}
	if t.reg != nil && t.reg.store != nil {
		t.reg.store.EmitTrigger(TriggerEvent{
			Edge:     edge,
			Trigger:  t.cfg.Name,
			Element:  t.cfg.Element.Name,
			Position: pos,
			Progress: t.progress,
		})
	}
}

func (t *Trigger) update() {
	if t.cfg.OnUpdate != nil && !t.killed {
		t.cfg.OnUpdate(t, t.progress)
	}
}
