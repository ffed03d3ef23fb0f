package scrollfx

import "fmt"

// ParallaxConfig configures scroll-scrubbed vertical drift.
type ParallaxConfig struct {
	Class string `yaml:"class"`
	// Speed is the fraction of the travel range an element drifts by.
	// Positive values lag behind the page, negative values lead.
	Speed float64 `yaml:"speed"`
	// Speeds overrides Speed per element name.
	Speeds map[string]float64 `yaml:"speeds"`
}

// DefaultParallaxConfig returns the parallax defaults.
func DefaultParallaxConfig() ParallaxConfig {
	return ParallaxConfig{Class: "parallax", Speed: 0.15}
}

// Parallax offsets each matching element while it crosses the viewport,
// from its top entering at the bottom to its bottom leaving at the top.
type Parallax struct {
	triggers []*Trigger
	els      []*Element
}

// NewParallax registers one scrub trigger per element. It returns
// ErrReducedMotion under reduced motion and ErrElementNotFound when no
// element matches.
func NewParallax(page *Page, reg *Registry, env Environment, cfg ParallaxConfig) (*Parallax, error) {
	if env.ReducedMotion() {
		return nil, fmt.Errorf("parallax: %w", ErrReducedMotion)
	}
	if cfg.Class == "" {
		cfg.Class = DefaultParallaxConfig().Class
	}
	els := page.ByClass(cfg.Class)
	if len(els) == 0 {
		return nil, fmt.Errorf("parallax: %w: .%s", ErrElementNotFound, cfg.Class)
	}

	p := &Parallax{}
	for _, el := range els {
		speed := cfg.Speed
		if s, ok := cfg.Speeds[el.Name]; ok {
			speed = s
		}
		trig, err := reg.Register(TriggerConfig{
			Name:    "parallax:" + el.Name,
			Element: el,
			Start:   Anchor{Element: 0, Viewport: 1},
			End:     &Anchor{Element: 1, Viewport: 0},
			OnUpdate: func(t *Trigger, progress float64) {
				end, _ := t.End()
				travel := end - t.Start()
				el.ParallaxY = finite((progress - 0.5) * travel * speed)
			},
		})
		if err != nil {
			p.Close()
			return nil, err
		}
		p.triggers = append(p.triggers, trig)
		p.els = append(p.els, el)
	}
	return p, nil
}

// Close kills the triggers and resets offsets.
func (p *Parallax) Close() {
	for _, t := range p.triggers {
		t.Kill()
	}
	for _, el := range p.els {
		el.ParallaxY = 0
	}
	p.triggers = nil
	p.els = nil
}
