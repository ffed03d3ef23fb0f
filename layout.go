package scrollfx

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLayout is returned by LoadPage for malformed page documents.
var ErrInvalidLayout = errors.New("scrollfx: invalid layout")

type boxSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type elementSpec struct {
	Name     string        `yaml:"name"`
	Classes  []string      `yaml:"classes"`
	Box      boxSpec       `yaml:"box"`
	Color    []float64     `yaml:"color"`
	Fluid    bool          `yaml:"fluid"`
	Clip     bool          `yaml:"clip"`
	Hidden   bool          `yaml:"hidden"`
	Layer    int           `yaml:"layer"`
	Children []elementSpec `yaml:"children"`
}

type pageSpec struct {
	Background []float64     `yaml:"background"`
	Sections   []elementSpec `yaml:"sections"`
	Fixed      []elementSpec `yaml:"fixed"`
}

// LoadPage builds a page from a YAML document:
//
//	background: [0.04, 0.04, 0.06]
//	sections:
//	  - name: hero
//	    box: {height: 900}
//	    children:
//	      - name: title
//	        classes: [reveal, velocity]
//	        box: {x: 80, y: 300, width: 600, height: 120}
//	        color: [1, 1, 1]
//
// Sections always span the viewport width. Names must be unique.
func LoadPage(data []byte) (*Page, error) {
	var spec pageSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if len(spec.Sections) == 0 {
		return nil, fmt.Errorf("%w: no sections", ErrInvalidLayout)
	}

	b := layoutBuilder{seen: make(map[string]bool)}
	page := NewPage()
	if spec.Background != nil {
		c, err := parseColor(spec.Background)
		if err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrInvalidLayout, err)
		}
		page.Background = c
	}
	for i := range spec.Sections {
		el, err := b.build(&spec.Sections[i])
		if err != nil {
			return nil, err
		}
		el.Box.X, el.Box.Y = 0, 0
		el.Fluid = true
		page.AddSection(el)
	}
	for i := range spec.Fixed {
		el, err := b.build(&spec.Fixed[i])
		if err != nil {
			return nil, err
		}
		page.AddFixed(el)
	}
	return page, nil
}

// LoadPageFile reads and parses a YAML layout file.
func LoadPageFile(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return LoadPage(data)
}

type layoutBuilder struct {
	seen map[string]bool
}

func (b *layoutBuilder) build(s *elementSpec) (*Element, error) {
	if s.Name != "" {
		if b.seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidLayout, s.Name)
		}
		b.seen[s.Name] = true
	}
	if s.Box.Width < 0 || s.Box.Height < 0 {
		return nil, fmt.Errorf("%w: %q has a negative size", ErrInvalidLayout, s.Name)
	}
	el := NewElement(s.Name, Rect{X: s.Box.X, Y: s.Box.Y, Width: s.Box.Width, Height: s.Box.Height}, s.Classes...)
	el.Fluid = s.Fluid
	el.Clip = s.Clip
	el.Visible = !s.Hidden
	el.Layer = s.Layer
	el.Color = Color{}
	if s.Color != nil {
		c, err := parseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %q color: %v", ErrInvalidLayout, s.Name, err)
		}
		el.Color = c
	}
	for i := range s.Children {
		child, err := b.build(&s.Children[i])
		if err != nil {
			return nil, err
		}
		el.AddChild(child)
	}
	return el, nil
}

func parseColor(v []float64) (Color, error) {
	switch len(v) {
	case 3:
		return Color{v[0], v[1], v[2], 1}, nil
	case 4:
		return Color{v[0], v[1], v[2], v[3]}, nil
	}
	return Color{}, fmt.Errorf("want 3 or 4 components, got %d", len(v))
}
