package scrollfx

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputConfig tunes how host input maps to scroll deltas.
type InputConfig struct {
	// WheelLine is the pixel distance of one wheel notch.
	WheelLine float64 `yaml:"wheel_line"`
	// PageFraction is the viewport fraction moved by page keys and space.
	PageFraction float64 `yaml:"page_fraction"`
	// DragDeadZone is the distance a press must travel before it drags.
	DragDeadZone float64 `yaml:"drag_dead_zone"`
	// WheelReleaseFrames is how many quiet frames end a horizontal wheel
	// gesture on the native gallery and trigger its snap.
	WheelReleaseFrames int `yaml:"wheel_release_frames"`
}

// DefaultInputConfig returns the input defaults.
func DefaultInputConfig() InputConfig {
	return InputConfig{WheelLine: 100, PageFraction: 0.9, DragDeadZone: 4, WheelReleaseFrames: 8}
}

// scrollKey is a keyboard scroll command.
type scrollKey uint8

const (
	keyNone scrollKey = iota
	keyLineDown
	keyLineUp
	keyPageDown
	keyPageUp
	keyHome
	keyEnd
)

// inputFrame is one frame of input, read from Ebitengine or injected.
type inputFrame struct {
	wheelX, wheelY float64 // pixels, positive = scroll right / down
	pointer        Vec2
	hasPointer     bool
	pressed        bool
	touch          bool
	keys           []scrollKey
}

// pointerState tracks the press/drag state machine of the primary pointer.
type pointerState struct {
	down      bool
	dragging  bool
	onGallery bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
}

type inputState struct {
	cfg        InputConfig
	ptr        pointerState
	touchIDs   []ebiten.TouchID
	touchID    ebiten.TouchID
	touching   bool
	keyBuf     []scrollKey
	wheelQuiet int
	wheeling   bool
}

// readInput samples Ebitengine input into an inputFrame.
func (in *inputState) readInput() inputFrame {
	var fr inputFrame
	wx, wy := ebiten.Wheel()
	// Ebitengine reports wheel-up as positive.
	fr.wheelX = -wx * in.cfg.WheelLine
	fr.wheelY = -wy * in.cfg.WheelLine
	if ebiten.IsKeyPressed(ebiten.KeyShift) && fr.wheelX == 0 {
		fr.wheelX, fr.wheelY = fr.wheelY, 0
	}

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) > 0 {
		if !in.touching || !containsTouch(in.touchIDs, in.touchID) {
			in.touchID = in.touchIDs[0]
		}
		in.touching = true
		tx, ty := ebiten.TouchPosition(in.touchID)
		fr.pointer = Vec2{X: float64(tx), Y: float64(ty)}
		fr.hasPointer = true
		fr.pressed = true
		fr.touch = true
	} else {
		if in.touching {
			// Release at the last touch position.
			in.touching = false
			fr.pointer = Vec2{X: in.ptr.lastX, Y: in.ptr.lastY}
			fr.hasPointer = true
			fr.touch = true
		} else {
			mx, my := ebiten.CursorPosition()
			fr.pointer = Vec2{X: float64(mx), Y: float64(my)}
			fr.hasPointer = true
			fr.pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
		}
	}

	in.keyBuf = in.keyBuf[:0]
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range []struct {
		key ebiten.Key
		cmd scrollKey
	}{
		{ebiten.KeyArrowDown, keyLineDown},
		{ebiten.KeyArrowUp, keyLineUp},
		{ebiten.KeyPageDown, keyPageDown},
		{ebiten.KeyPageUp, keyPageUp},
		{ebiten.KeyHome, keyHome},
		{ebiten.KeyEnd, keyEnd},
	} {
		if inpututil.IsKeyJustPressed(k.key) || isKeyRepeating(k.key) {
			in.keyBuf = append(in.keyBuf, k.cmd)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if shift {
			in.keyBuf = append(in.keyBuf, keyPageUp)
		} else {
			in.keyBuf = append(in.keyBuf, keyPageDown)
		}
	}
	fr.keys = in.keyBuf
	return fr
}

// isKeyRepeating reports auto-repeat for held arrow keys, using the usual
// 30-frame delay and 4-frame interval.
func isKeyRepeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d >= 30 && (d-30)%4 == 0
}

func containsTouch(ids []ebiten.TouchID, id ebiten.TouchID) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

// processInput reads (or dequeues injected) input and routes it. Called
// from Site.Update before the frame queue is flushed, so deltas applied
// here are visible to this frame's tick.
func (s *Site) processInput() {
	if len(s.injectQueue) > 0 {
		fr := s.injectQueue[0]
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
		s.routeInput(fr)
		return
	}
	if s.realInput {
		s.routeInput(s.input.readInput())
	}
}

// routeInput applies one frame of input to the engine, the gallery and the
// event hub.
func (s *Site) routeInput(fr inputFrame) {
	if fr.hasPointer {
		s.events.EmitPointer(fr.pointer)
		s.routePointer(fr)
	}
	s.routeWheel(fr)
	for _, k := range fr.keys {
		s.routeKey(k)
	}
}

// overGallery reports whether p lies over the native-mode gallery container.
func (s *Site) overGallery(p Vec2) bool {
	if s.takeover == nil || s.takeover.Mode() != TakeoverNative {
		return false
	}
	return s.takeover.Container().ScreenRect(s.engine.State().Position).Contains(p.X, p.Y)
}

func (s *Site) routeWheel(fr inputFrame) {
	in := &s.input
	if fr.wheelX != 0 && fr.hasPointer && s.overGallery(fr.pointer) {
		s.takeover.ScrollBy(fr.wheelX)
		in.wheeling = true
		in.wheelQuiet = 0
	} else if in.wheeling {
		in.wheelQuiet++
		if in.wheelQuiet >= in.cfg.WheelReleaseFrames {
			in.wheeling = false
			s.takeover.Release()
		}
	}
	if fr.wheelY != 0 {
		s.engine.AddDelta(fr.wheelY, InputWheel)
	}
}

// routePointer runs the press/drag state machine. Drags that start on the
// native gallery scroll it horizontally; touch drags elsewhere scroll the
// page. Mouse drags never scroll the page.
func (s *Site) routePointer(fr inputFrame) {
	ps := &s.input.ptr
	x, y := fr.pointer.X, fr.pointer.Y
	switch {
	case fr.pressed && !ps.down:
		*ps = pointerState{down: true, startX: x, startY: y, lastX: x, lastY: y}
		ps.onGallery = s.overGallery(fr.pointer)
	case fr.pressed && ps.down:
		if !ps.dragging {
			if math.Hypot(x-ps.startX, y-ps.startY) > s.input.cfg.DragDeadZone {
				ps.dragging = true
			}
		}
		if ps.dragging {
			dx, dy := ps.lastX-x, ps.lastY-y
			switch {
			case ps.onGallery:
				s.takeover.ScrollBy(dx)
				if fr.touch {
					s.engine.AddDelta(dy, InputTouch)
				}
			case fr.touch:
				s.engine.AddDelta(dy, InputTouch)
			}
		}
		ps.lastX, ps.lastY = x, y
	case !fr.pressed && ps.down:
		if ps.onGallery && s.takeover != nil {
			s.takeover.Release()
		}
		ps.down = false
		ps.dragging = false
		ps.onGallery = false
		ps.lastX, ps.lastY = x, y
	default:
		ps.lastX, ps.lastY = x, y
	}
}

func (s *Site) routeKey(k scrollKey) {
	step := s.engine.Config().KeyStep
	page := s.viewport.Height * s.input.cfg.PageFraction
	switch k {
	case keyLineDown:
		s.engine.AddDelta(step, InputKeyboard)
	case keyLineUp:
		s.engine.AddDelta(-step, InputKeyboard)
	case keyPageDown:
		s.engine.AddDelta(page, InputKeyboard)
	case keyPageUp:
		s.engine.AddDelta(-page, InputKeyboard)
	case keyHome:
		s.engine.ScrollTo(0, ScrollToOptions{})
	case keyEnd:
		s.engine.ScrollTo(s.engine.State().Limit, ScrollToOptions{})
	}
}
