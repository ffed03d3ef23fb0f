package scrollfx

import (
	"fmt"
)

// CursorConfig configures the custom pointer.
type CursorConfig struct {
	Enabled bool `yaml:"enabled"`
	// Rate is the ring's EffectProxy rate; the dot follows directly.
	Rate       float64  `yaml:"rate"`
	DotSize    float64  `yaml:"dot_size"`
	RingSize   float64  `yaml:"ring_size"`
	HoverScale float64  `yaml:"hover_scale"`
	Hover      []string `yaml:"hover"`
}

// DefaultCursorConfig returns the cursor defaults.
func DefaultCursorConfig() CursorConfig {
	return CursorConfig{
		Enabled:    true,
		Rate:       0.15,
		DotSize:    8,
		RingSize:   36,
		HoverScale: 1.8,
		Hover:      []string{"magnetic", "link"},
	}
}

// Cursor draws a dot at the pointer and a lagging ring that grows over
// interactive elements.
type Cursor struct {
	cfg    CursorConfig
	page   *Page
	scroll ScrollSource

	dot, ring   *Element
	x, y, scale EffectProxy
	seen        bool
	hovering    bool
	pointerSub  Handle
	frameSub    Handle
	closed      bool
}

// NewCursor adds the cursor elements to page. Touch devices have no
// pointer to follow, so it returns ErrEffectDisabled there.
func NewCursor(page *Page, loop *RenderLoop, events *EventHub, scroll ScrollSource, env Environment, cfg CursorConfig) (*Cursor, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("cursor: %w", ErrEffectDisabled)
	}
	if env.TouchCapable() {
		return nil, fmt.Errorf("cursor: %w: touch device", ErrEffectDisabled)
	}
	def := DefaultCursorConfig()
	if cfg.DotSize <= 0 {
		cfg.DotSize = def.DotSize
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = def.RingSize
	}
	if cfg.HoverScale <= 0 {
		cfg.HoverScale = 1
	}
	rate := cfg.Rate
	if env.ReducedMotion() {
		rate = 1
	}

	c := &Cursor{
		cfg:    cfg,
		page:   page,
		scroll: scroll,
		x:      NewEffectProxy(0, rate),
		y:      NewEffectProxy(0, rate),
		scale:  NewEffectProxy(1, rate),
	}
	c.ring = NewElement("cursor-ring", Rect{Width: cfg.RingSize, Height: cfg.RingSize}, "cursor")
	c.ring.Color = Color{1, 1, 1, 0.35}
	c.ring.Layer = 100
	c.ring.Visible = false
	c.dot = NewElement("cursor-dot", Rect{Width: cfg.DotSize, Height: cfg.DotSize}, "cursor")
	c.dot.Layer = 101
	c.dot.Visible = false
	page.AddFixed(c.ring)
	page.AddFixed(c.dot)

	if p, ok := events.Pointer(); ok {
		c.move(p)
		c.x.Snap(p.X)
		c.y.Snap(p.Y)
	}
	c.pointerSub = events.OnPointerMove(c.move)
	c.frameSub = loop.Add(c.frame)
	return c, nil
}

// Dot returns the dot element.
func (c *Cursor) Dot() *Element { return c.dot }

// Ring returns the ring element.
func (c *Cursor) Ring() *Element { return c.ring }

// Hovering reports whether the pointer is over an interactive element.
func (c *Cursor) Hovering() bool { return c.hovering }

func (c *Cursor) move(p Vec2) {
	if !c.seen {
		c.seen = true
		c.x.Snap(p.X)
		c.y.Snap(p.Y)
		c.dot.Visible = true
		c.ring.Visible = true
	}
	c.dot.Box.X = p.X - c.cfg.DotSize/2
	c.dot.Box.Y = p.Y - c.cfg.DotSize/2
	c.x.Target = p.X
	c.y.Target = p.Y
	c.hovering = c.page.HitTest(p.X, p.Y, c.scroll.State().Position, c.interactive) != nil
	if c.hovering {
		c.scale.Target = c.cfg.HoverScale
	} else {
		c.scale.Target = 1
	}
}

func (c *Cursor) interactive(el *Element) bool {
	for _, cls := range c.cfg.Hover {
		if el.HasClass(cls) {
			return true
		}
	}
	return false
}

func (c *Cursor) frame(Frame) {
	if !c.seen {
		return
	}
	x, y, s := c.x.Step(), c.y.Step(), c.scale.Step()
	c.ring.Box.X = x - c.cfg.RingSize/2
	c.ring.Box.Y = y - c.cfg.RingSize/2
	c.ring.ScaleX = s
	c.ring.ScaleY = s
}

// Close removes the cursor elements and listeners. Safe to call more than
// once.
func (c *Cursor) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.pointerSub.Remove()
	c.frameSub.Remove()
	c.page.Remove(c.dot)
	c.page.Remove(c.ring)
}
