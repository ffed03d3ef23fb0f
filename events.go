package scrollfx

// EventHub fans out host pointer and resize events to effects. Every
// subscription returns a Handle so effects can detach on teardown.
type EventHub struct {
	pointer listenerList[func(Vec2)]
	resize  listenerList[func(Viewport)]

	last       Vec2
	hasPointer bool
}

// OnPointerMove registers fn for pointer moves (screen coordinates).
func (h *EventHub) OnPointerMove(fn func(Vec2)) Handle {
	return h.pointer.add(fn)
}

// OnResize registers fn for viewport size changes (raw, not debounced).
func (h *EventHub) OnResize(fn func(Viewport)) Handle {
	return h.resize.add(fn)
}

// EmitPointer records p and notifies pointer listeners when it moved.
func (h *EventHub) EmitPointer(p Vec2) {
	if h.hasPointer && p == h.last {
		return
	}
	h.last = p
	h.hasPointer = true
	h.pointer.each(func(fn func(Vec2)) { fn(p) })
}

// EmitResize notifies resize listeners.
func (h *EventHub) EmitResize(vp Viewport) {
	h.resize.each(func(fn func(Viewport)) { fn(vp) })
}

// Pointer returns the last observed pointer position.
func (h *EventHub) Pointer() (Vec2, bool) { return h.last, h.hasPointer }

// ListenerCount returns the number of pointer and resize listeners.
func (h *EventHub) ListenerCount() (pointer, resize int) {
	return h.pointer.len(), h.resize.len()
}
