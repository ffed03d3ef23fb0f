package scrollfx

// Injected input replaces real input for the frame it is consumed on, one
// queued frame per Update. Screen coordinates are used, as for real input.

// InjectWheel queues one frame of wheel input in pixels (positive dy
// scrolls down, positive dx scrolls right).
func (s *Site) InjectWheel(dx, dy float64) {
	p, ok := s.events.Pointer()
	s.injectQueue = append(s.injectQueue, inputFrame{
		wheelX: dx, wheelY: dy,
		pointer: p, hasPointer: ok,
	})
}

// InjectPointer queues one frame of pointer input.
func (s *Site) InjectPointer(x, y float64, pressed bool) {
	s.injectQueue = append(s.injectQueue, inputFrame{
		pointer:    Vec2{X: x, Y: y},
		hasPointer: true,
		pressed:    pressed,
	})
}

// InjectDrag queues a full drag: press at (fromX, fromY), linearly
// interpolated moves and a release at (toX, toY), consuming frames frames
// (minimum 2). touch marks it as a touch gesture, which also scrolls the
// page vertically.
func (s *Site) InjectDrag(fromX, fromY, toX, toY float64, frames int, touch bool) {
	if frames < 2 {
		frames = 2
	}
	push := func(x, y float64, pressed bool) {
		s.injectQueue = append(s.injectQueue, inputFrame{
			pointer: Vec2{X: x, Y: y}, hasPointer: true,
			pressed: pressed, touch: touch,
		})
	}
	push(fromX, fromY, true)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		push(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, true)
	}
	push(toX, toY, false)
}

// InjectKey queues one frame with a keyboard scroll command: "down", "up",
// "pagedown", "pageup", "home" or "end". Unknown names are ignored.
func (s *Site) InjectKey(name string) {
	k := parseScrollKey(name)
	if k == keyNone {
		return
	}
	p, ok := s.events.Pointer()
	s.injectQueue = append(s.injectQueue, inputFrame{
		pointer: p, hasPointer: ok,
		keys: []scrollKey{k},
	})
}

// Injected returns the number of queued input frames.
func (s *Site) Injected() int { return len(s.injectQueue) }

func parseScrollKey(name string) scrollKey {
	switch name {
	case "down":
		return keyLineDown
	case "up":
		return keyLineUp
	case "pagedown", "space":
		return keyPageDown
	case "pageup":
		return keyPageUp
	case "home":
		return keyHome
	case "end":
		return keyEnd
	}
	return keyNone
}
