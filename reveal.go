package scrollfx

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// RevealConfig configures the entrance animation of revealed elements.
type RevealConfig struct {
	Class string `yaml:"class"`
	// Start is where the reveal fires. Default: element top meets 85% of
	// the viewport height.
	Start Anchor `yaml:"start"`
	// Duration of the full reveal in seconds.
	Duration float32 `yaml:"duration"`
	// ReducedDuration is the fixed fade used under reduced motion.
	ReducedDuration float32 `yaml:"reduced_duration"`
	// Distance is the initial downward offset in pixels.
	Distance float64 `yaml:"distance"`
	// Blur is the initial blur in pixels.
	Blur float64 `yaml:"blur"`
	// Tilt is the initial vertical squash standing in for a 3D rotation:
	// ScaleY starts at 1-Tilt.
	Tilt float64 `yaml:"tilt"`
	// Once keeps elements revealed after the first entry. Otherwise the
	// animation reverses on leave-back.
	Once bool `yaml:"once"`
}

// DefaultRevealConfig returns the reveal defaults.
func DefaultRevealConfig() RevealConfig {
	return RevealConfig{
		Class:           "reveal",
		Start:           Anchor{Element: 0, Viewport: 0.85},
		Duration:        1.0,
		ReducedDuration: 0.4,
		Distance:        60,
		Blur:            10,
		Tilt:            0.2,
		Once:            true,
	}
}

type revealItem struct {
	el      *Element
	trigger *Trigger
	group   *TweenGroup
	shown   bool
}

// Reveals animates every element of the reveal class into view when its
// start anchor is crossed.
type Reveals struct {
	cfg      RevealConfig
	animator *Animator
	reduced  bool
	items    []*revealItem
	closed   bool
}

// NewReveals hides every matching element and registers one trigger each.
// It returns ErrElementNotFound when the page has no matching element.
func NewReveals(page *Page, reg *Registry, animator *Animator, env Environment, cfg RevealConfig) (*Reveals, error) {
	def := DefaultRevealConfig()
	if cfg.Class == "" {
		cfg.Class = def.Class
	}
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.ReducedDuration <= 0 {
		cfg.ReducedDuration = def.ReducedDuration
	}
	els := page.ByClass(cfg.Class)
	if len(els) == 0 {
		return nil, fmt.Errorf("reveal: %w: .%s", ErrElementNotFound, cfg.Class)
	}

	r := &Reveals{cfg: cfg, animator: animator, reduced: env.ReducedMotion()}
	for _, el := range els {
		it := &revealItem{el: el}
		r.hide(it)
		trig, err := reg.Register(TriggerConfig{
			Name:        "reveal:" + el.Name,
			Element:     el,
			Start:       cfg.Start,
			OnEnter:     func(*Trigger) { r.show(it) },
			OnEnterBack: func(*Trigger) { r.show(it) },
			OnLeaveBack: func(*Trigger) {
				if !r.cfg.Once {
					r.reverse(it)
				}
			},
		})
		if err != nil {
			r.Close()
			return nil, err
		}
		it.trigger = trig
		r.items = append(r.items, it)
		// Already past the start at registration: show ran before the
		// trigger was known.
		if it.shown && cfg.Once {
			trig.Kill()
		}
	}
	return r, nil
}

// Count returns the number of managed elements.
func (r *Reveals) Count() int { return len(r.items) }

// Shown reports how many elements are currently revealed.
func (r *Reveals) Shown() int {
	n := 0
	for _, it := range r.items {
		if it.shown {
			n++
		}
	}
	return n
}

func (r *Reveals) hide(it *revealItem) {
	el := it.el
	el.Alpha = 0
	if r.reduced {
		return
	}
	el.OffsetY = r.cfg.Distance
	el.Blur = r.cfg.Blur
	el.ScaleY = 1 - clamp01(r.cfg.Tilt)
}

func (r *Reveals) play(it *revealItem, g *TweenGroup) {
	if it.group != nil {
		it.group.Stop()
	}
	it.group = r.animator.Add(g)
}

func (r *Reveals) show(it *revealItem) {
	if it.shown || r.closed {
		return
	}
	it.shown = true
	el := it.el
	if r.reduced {
		r.play(it, TweenAlpha(el, 1, r.cfg.ReducedDuration, ease.Linear))
		return
	}
	r.play(it, NewTweenGroup(el, r.cfg.Duration, ease.OutCubic,
		TweenField{&el.Alpha, 1},
		TweenField{&el.OffsetY, 0},
		TweenField{&el.Blur, 0},
		TweenField{&el.ScaleY, 1},
	))
	if r.cfg.Once && it.trigger != nil {
		it.trigger.Kill()
	}
}

func (r *Reveals) reverse(it *revealItem) {
	if !it.shown || r.closed {
		return
	}
	it.shown = false
	el := it.el
	if r.reduced {
		r.play(it, TweenAlpha(el, 0, r.cfg.ReducedDuration, ease.Linear))
		return
	}
	d := r.cfg.Duration / 2
	r.play(it, NewTweenGroup(el, d, ease.InCubic,
		TweenField{&el.Alpha, 0},
		TweenField{&el.OffsetY, r.cfg.Distance},
		TweenField{&el.Blur, r.cfg.Blur},
		TweenField{&el.ScaleY, 1 - clamp01(r.cfg.Tilt)},
	))
}

// Close kills every trigger, stops running tweens and leaves each element
// fully visible.
func (r *Reveals) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for _, it := range r.items {
		if it.trigger != nil {
			it.trigger.Kill()
		}
		if it.group != nil {
			it.group.Stop()
		}
		it.el.Alpha = 1
		it.el.OffsetY = 0
		it.el.Blur = 0
		it.el.ScaleY = 1
	}
}
