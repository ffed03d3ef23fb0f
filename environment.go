package scrollfx

import (
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
)

// Environment is the read-only host signal set: accessibility preference,
// device capabilities, viewport and page visibility.
type Environment interface {
	// ReducedMotion reports the user's reduced-motion preference.
	ReducedMotion() bool
	// TouchCapable reports whether the device has touch input.
	TouchCapable() bool
	// GraphicsAvailable reports whether a GPU shader context can be used.
	GraphicsAvailable() bool
	// Viewport returns the current viewport.
	Viewport() Viewport
	// Visible reports whether the page is currently visible to the user.
	Visible() bool
}

// StaticEnvironment is a fixed Environment, used for tests, scripted runs
// and as the base of the Ebitengine environment.
type StaticEnvironment struct {
	Reduced  bool
	Touch    bool
	Graphics bool
	View     Viewport
	Hidden   bool
}

func (e *StaticEnvironment) ReducedMotion() bool     { return e.Reduced }
func (e *StaticEnvironment) TouchCapable() bool      { return e.Touch }
func (e *StaticEnvironment) GraphicsAvailable() bool { return e.Graphics }
func (e *StaticEnvironment) Viewport() Viewport      { return e.View }
func (e *StaticEnvironment) Visible() bool           { return !e.Hidden }

// ReducedMotionEnv is the environment variable that forces the
// reduced-motion preference ("1", "true").
const ReducedMotionEnv = "SCROLLFX_REDUCED_MOTION"

// EbitenEnvironment reads live signals from Ebitengine. The viewport is
// fed by Site.Layout; touch capability latches once any touch is seen.
type EbitenEnvironment struct {
	reduced bool
	touch   bool
	view    Viewport
	touches []ebiten.TouchID
}

// NewEbitenEnvironment creates the live environment. reduced comes from
// configuration and is OR-ed with the ReducedMotionEnv variable.
func NewEbitenEnvironment(reduced bool) *EbitenEnvironment {
	if v, err := strconv.ParseBool(os.Getenv(ReducedMotionEnv)); err == nil && v {
		reduced = true
	}
	return &EbitenEnvironment{reduced: reduced, view: Viewport{DeviceScale: 1}}
}

func (e *EbitenEnvironment) ReducedMotion() bool { return e.reduced }

func (e *EbitenEnvironment) TouchCapable() bool {
	if !e.touch {
		e.touches = ebiten.AppendTouchIDs(e.touches[:0])
		e.touch = len(e.touches) > 0
	}
	return e.touch
}

// GraphicsAvailable is true whenever the game loop is running on a GPU
// backend; shader compilation is the real check (see NewBackground).
func (e *EbitenEnvironment) GraphicsAvailable() bool { return true }

func (e *EbitenEnvironment) Viewport() Viewport { return e.view }

func (e *EbitenEnvironment) Visible() bool { return ebiten.IsFocused() }

// setViewport records the outside size reported by Layout.
func (e *EbitenEnvironment) setViewport(w, h int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	e.view = Viewport{Width: float64(w), Height: float64(h), DeviceScale: scale}
}

func (e *StaticEnvironment) setViewport(w, h int) {
	e.View.Width = float64(w)
	e.View.Height = float64(h)
}

// viewportSink is implemented by environments whose viewport follows the
// host window.
type viewportSink interface {
	setViewport(w, h int)
}
