package scrollfx

import "fmt"

// MagneticConfig configures the pull of magnetic elements toward the
// pointer.
type MagneticConfig struct {
	Class string `yaml:"class"`
	// Strength is the fraction of the pointer's distance from the element
	// center the element moves by.
	Strength float64 `yaml:"strength"`
	// Padding extends the active area around each element.
	Padding float64 `yaml:"padding"`
	Rate    float64 `yaml:"rate"`
}

// DefaultMagneticConfig returns the magnetic defaults.
func DefaultMagneticConfig() MagneticConfig {
	return MagneticConfig{Class: "magnetic", Strength: 0.35, Padding: 40, Rate: 0.15}
}

type magnet struct {
	el   *Element
	x, y EffectProxy
}

// Magnetic offsets every matching element toward the pointer while it is
// within the padded element box and eases back when it leaves.
type Magnetic struct {
	cfg        MagneticConfig
	scroll     ScrollSource
	magnets    []*magnet
	pointerSub Handle
	frameSub   Handle
}

// NewMagnetic returns ErrReducedMotion under reduced motion and
// ErrElementNotFound when nothing matches.
func NewMagnetic(page *Page, loop *RenderLoop, events *EventHub, scroll ScrollSource, env Environment, cfg MagneticConfig) (*Magnetic, error) {
	if env.ReducedMotion() {
		return nil, fmt.Errorf("magnetic: %w", ErrReducedMotion)
	}
	if cfg.Class == "" {
		cfg.Class = DefaultMagneticConfig().Class
	}
	els := page.ByClass(cfg.Class)
	if len(els) == 0 {
		return nil, fmt.Errorf("magnetic: %w: .%s", ErrElementNotFound, cfg.Class)
	}
	m := &Magnetic{cfg: cfg, scroll: scroll}
	for _, el := range els {
		m.magnets = append(m.magnets, &magnet{
			el: el,
			x:  NewEffectProxy(0, cfg.Rate),
			y:  NewEffectProxy(0, cfg.Rate),
		})
	}
	m.pointerSub = events.OnPointerMove(m.move)
	m.frameSub = loop.Add(m.frame)
	return m, nil
}

func (m *Magnetic) move(p Vec2) {
	pos := m.scroll.State().Position
	for _, mg := range m.magnets {
		// Measure without our own offset so the active area does not chase
		// the pointer.
		r := mg.el.ScreenRect(pos)
		r.X -= mg.el.MagnetX
		r.Y -= mg.el.MagnetY
		if !r.Inset(m.cfg.Padding).Contains(p.X, p.Y) {
			mg.x.Target, mg.y.Target = 0, 0
			continue
		}
		c := r.Center()
		mg.x.Target = (p.X - c.X) * m.cfg.Strength
		mg.y.Target = (p.Y - c.Y) * m.cfg.Strength
	}
}

func (m *Magnetic) frame(Frame) {
	for _, mg := range m.magnets {
		mg.el.MagnetX = mg.x.Step()
		mg.el.MagnetY = mg.y.Step()
	}
}

// Close detaches and resets offsets.
func (m *Magnetic) Close() {
	m.pointerSub.Remove()
	m.frameSub.Remove()
	for _, mg := range m.magnets {
		mg.el.MagnetX, mg.el.MagnetY = 0, 0
	}
}
