package scrollfx

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrElementNotFound is returned when a component's required element is
// missing from the page. Components treat it as "effect absent".
var ErrElementNotFound = errors.New("scrollfx: element not found")

// elementIDCounter is a plain counter (no atomic: scrollfx is single-threaded).
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// Element is one rectangular box of the page. Sections are laid out in
// document flow; every other element is positioned by Box relative to its
// parent. Effects write the render fields (offsets, alpha, skew...) and
// never touch Box.
type Element struct {
	// Identity
	ID      uint32
	Name    string // identifier, queried as "#name"
	Classes []string

	// Hierarchy
	Parent   *Element
	children []*Element
	page     *Page

	// Layout (document pixels). For sections only Width/Height are used;
	// X/Y come from the flow.
	Box Rect

	// Fixed elements ignore scroll and are drawn relative to the viewport.
	Fixed bool
	// Layer orders fixed elements: negative layers draw behind the page.
	Layer int
	// Clip restricts children drawing to this element's box.
	Clip bool
	// Fluid elements track the viewport width, keeping Box.X as a margin
	// on both sides.
	Fluid bool

	// Appearance
	Color   Color
	Image   *ebiten.Image
	Visible bool

	// Render state written by effects. Each effect owns its own fields;
	// ScreenRect sums the offsets and the renderer uses the larger blur.
	OffsetX, OffsetY float64 // tweens and reveals
	MagnetX, MagnetY float64 // magnetic pull
	ParallaxY        float64
	ScrollX          float64 // horizontal scroll offset applied to children
	PinY             float64 // pin compensation written by the trigger registry
	Alpha            float64
	ScaleX, ScaleY   float64
	SkewX            float64 // radians
	Blur             float64 // pixels
	MotionBlur       float64 // pixels, written by the velocity effect

	// UserData carries arbitrary per-element data for effects.
	UserData any

	docY    float64
	spacing float64
	removed bool
}

// NewElement creates a visible, opaque element.
func NewElement(name string, box Rect, classes ...string) *Element {
	return &Element{
		ID:      nextElementID(),
		Name:    name,
		Classes: classes,
		Box:     box,
		Color:   ColorWhite,
		Visible: true,
		Alpha:   1,
		ScaleX:  1,
		ScaleY:  1,
	}
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	for _, have := range e.Classes {
		if have == c {
			return true
		}
	}
	return false
}

// AddClass adds c if missing.
func (e *Element) AddClass(c string) {
	if !e.HasClass(c) {
		e.Classes = append(e.Classes, c)
	}
}

// RemoveClass removes c if present.
func (e *Element) RemoveClass(c string) {
	for i, have := range e.Classes {
		if have == c {
			e.Classes = append(e.Classes[:i:i], e.Classes[i+1:]...)
			return
		}
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (e *Element) Children() []*Element { return e.children }

// AddChild appends child, reparenting it if needed.
func (e *Element) AddChild(child *Element) {
	if child.Parent != nil {
		child.Parent.removeChild(child)
	}
	child.Parent = e
	child.removed = false
	e.children = append(e.children, child)
	if e.page != nil {
		e.page.attach(child)
	}
}

func (e *Element) removeChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i:i], e.children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Removed reports whether the element has been detached from its page.
func (e *Element) Removed() bool { return e.removed }

// section returns the top-level flow ancestor (or e itself).
func (e *Element) section() *Element {
	s := e
	for s.Parent != nil {
		s = s.Parent
	}
	return s
}

// DocumentRect returns the element's layout box in document coordinates,
// ignoring effect offsets and pins.
func (e *Element) DocumentRect() Rect {
	if e.Parent == nil {
		if e.Fixed {
			return e.Box
		}
		return Rect{X: 0, Y: e.docY, Width: e.Box.Width, Height: e.Box.Height}
	}
	p := e.Parent.DocumentRect()
	return Rect{X: p.X + e.Box.X, Y: p.Y + e.Box.Y, Width: e.Box.Width, Height: e.Box.Height}
}

// ScreenRect returns where the element is drawn for the given scroll
// position: layout plus offsets, pins and ancestor horizontal scroll.
func (e *Element) ScreenRect(scroll float64) Rect {
	if e.Parent == nil {
		r := e.DocumentRect()
		r.X += e.offsetX()
		r.Y += e.offsetY() + e.PinY
		if !e.Fixed {
			r.Y -= scroll
		}
		return r
	}
	p := e.Parent.ScreenRect(scroll)
	return Rect{
		X:      p.X + e.Box.X + e.offsetX() - e.Parent.ScrollX,
		Y:      p.Y + e.Box.Y + e.offsetY() + e.PinY,
		Width:  e.Box.Width,
		Height: e.Box.Height,
	}
}

func (e *Element) offsetX() float64 { return e.OffsetX + e.MagnetX }

func (e *Element) offsetY() float64 { return e.OffsetY + e.MagnetY + e.ParallaxY }

// BlurRadius returns the blur the renderer applies: the larger of Blur and
// MotionBlur.
func (e *Element) BlurRadius() float64 { return math.Max(e.Blur, e.MotionBlur) }

// Page is the fixed document: sections in vertical flow plus fixed
// (viewport-anchored) elements.
type Page struct {
	sections []*Element
	fixed    []*Element
	byName   map[string]*Element
	height   float64
	renderer *pageRenderer

	// Background is the clear color behind everything.
	Background Color
}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{byName: make(map[string]*Element), Background: Color{0.04, 0.04, 0.06, 1}}
}

// AddSection appends a section to the document flow.
func (p *Page) AddSection(el *Element) {
	el.Fixed = false
	el.Parent = nil
	p.sections = append(p.sections, el)
	p.attach(el)
	p.Layout()
}

// AddFixed adds a viewport-anchored element.
func (p *Page) AddFixed(el *Element) {
	el.Fixed = true
	el.Parent = nil
	p.fixed = append(p.fixed, el)
	p.attach(el)
}

func (p *Page) attach(el *Element) {
	el.page = p
	el.removed = false
	if el.Name != "" {
		p.byName[el.Name] = el
	}
	for _, c := range el.children {
		p.attach(c)
	}
}

func (p *Page) detach(el *Element) {
	el.removed = true
	el.page = nil
	if el.Name != "" && p.byName[el.Name] == el {
		delete(p.byName, el.Name)
	}
	for _, c := range el.children {
		p.detach(c)
	}
}

// Remove detaches el (and its subtree) from the page. Removing an element
// twice is a no-op.
func (p *Page) Remove(el *Element) {
	if el == nil || el.removed || el.page != p {
		return
	}
	switch {
	case el.Parent != nil:
		el.Parent.removeChild(el)
	case el.Fixed:
		for i, f := range p.fixed {
			if f == el {
				p.fixed = append(p.fixed[:i:i], p.fixed[i+1:]...)
				break
			}
		}
	default:
		for i, s := range p.sections {
			if s == el {
				p.sections = append(p.sections[:i:i], p.sections[i+1:]...)
				break
			}
		}
	}
	p.detach(el)
	p.Layout()
}

// Sections returns the flow sections. The returned slice MUST NOT be mutated.
func (p *Page) Sections() []*Element { return p.sections }

// Fixed returns the fixed elements. The returned slice MUST NOT be mutated.
func (p *Page) Fixed() []*Element { return p.fixed }

// ByID returns the element with the given identifier. A leading '#' is
// accepted.
func (p *Page) ByID(name string) (*Element, bool) {
	el, ok := p.byName[strings.TrimPrefix(name, "#")]
	return el, ok
}

// Require is like ByID but returns ErrElementNotFound when missing.
func (p *Page) Require(name string) (*Element, error) {
	el, ok := p.ByID(name)
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, strings.TrimPrefix(name, "#"))
	}
	return el, nil
}

// ByClass returns every element carrying class (leading '.' accepted), in
// document order.
func (p *Page) ByClass(class string) []*Element {
	class = strings.TrimPrefix(class, ".")
	var out []*Element
	var walk func(el *Element)
	walk = func(el *Element) {
		if el.HasClass(class) {
			out = append(out, el)
		}
		for _, c := range el.children {
			walk(c)
		}
	}
	for _, s := range p.sections {
		walk(s)
	}
	for _, f := range p.fixed {
		walk(f)
	}
	return out
}

// SetPinSpacing reserves px of extra scroll distance after the section
// containing el, pushing every following section down.
func (p *Page) SetPinSpacing(el *Element, px float64) {
	s := el.section()
	px = clamp(finite(px), 0, 1e7)
	if s.spacing == px {
		return
	}
	s.spacing = px
	p.Layout()
}

// PinSpacing returns the spacing reserved after el's section.
func (p *Page) PinSpacing(el *Element) float64 { return el.section().spacing }

// Layout recomputes section positions and the document height.
func (p *Page) Layout() {
	y := 0.0
	for _, s := range p.sections {
		s.docY = y
		y += math0(s.Box.Height) + s.spacing
	}
	p.height = y
}

// SetViewportWidth resizes every fluid element to the viewport width and
// re-runs layout.
func (p *Page) SetViewportWidth(w float64) {
	var walk func(el *Element)
	walk = func(el *Element) {
		if el.Fluid {
			el.Box.Width = math0(w - 2*el.Box.X)
		}
		for _, c := range el.children {
			walk(c)
		}
	}
	for _, s := range p.sections {
		walk(s)
	}
	for _, f := range p.fixed {
		walk(f)
	}
	p.Layout()
}

// Height returns the document height including pin spacing.
func (p *Page) Height() float64 { return p.height }

// ScrollLimit returns the maximum scroll offset for a viewport height.
func (p *Page) ScrollLimit(viewportHeight float64) float64 {
	if l := p.height - viewportHeight; l > 0 {
		return l
	}
	return 0
}

// HitTest returns the topmost element under the screen point for the given
// scroll position that satisfies match (nil matches everything), or nil.
// Foreground fixed elements are tested after the section flow.
func (p *Page) HitTest(x, y, scroll float64, match func(*Element) bool) *Element {
	var hit *Element
	var walk func(el *Element)
	walk = func(el *Element) {
		if !el.Visible {
			return
		}
		if el.ScreenRect(scroll).Contains(x, y) && (match == nil || match(el)) {
			hit = el
		}
		for _, c := range el.children {
			walk(c)
		}
	}
	for _, s := range p.sections {
		walk(s)
	}
	for _, f := range p.fixed {
		if f.Layer >= 0 {
			walk(f)
		}
	}
	return hit
}

func math0(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	return v
}
