package scrollfx

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// pageRenderer draws a page onto a screen image. It holds reusable draw
// options and offscreen images so a frame does not allocate.
type pageRenderer struct {
	op   ebiten.DrawImageOptions
	pool texturePool
	blur kawaseBlur
}

// Draw renders the page for the given scroll position: background fixed
// layers, then the section flow, then foreground fixed layers.
func (p *Page) Draw(screen *ebiten.Image, scroll float64) {
	if p.renderer == nil {
		p.renderer = &pageRenderer{}
	}
	p.renderer.draw(p, screen, scroll)
}

// Dispose frees the offscreen images used by Draw. The next Draw
// allocates them again.
func (p *Page) Dispose() {
	if p.renderer == nil {
		return
	}
	p.renderer.blur.dispose()
	p.renderer.pool.dispose()
	p.renderer = nil
}

func (r *pageRenderer) draw(p *Page, screen *ebiten.Image, scroll float64) {
	screen.Fill(p.Background.toRGBA())
	for _, f := range p.fixed {
		if f.Layer < 0 {
			r.drawElement(screen, f, scroll, 1)
		}
	}
	vb := screen.Bounds()
	view := Rect{X: float64(vb.Min.X), Y: float64(vb.Min.Y), Width: float64(vb.Dx()), Height: float64(vb.Dy())}
	for _, s := range p.sections {
		// Skip sections fully outside the viewport; pinned sections are
		// placed on screen by PinY so the screen rect is authoritative.
		if !s.ScreenRect(scroll).Intersects(view) {
			continue
		}
		r.drawElement(screen, s, scroll, 1)
	}
	for _, f := range p.fixed {
		if f.Layer >= 0 {
			r.drawElement(screen, f, scroll, 1)
		}
	}
}

func (r *pageRenderer) drawElement(target *ebiten.Image, el *Element, scroll, parentAlpha float64) {
	if !el.Visible {
		return
	}
	alpha := parentAlpha * clamp01(el.Alpha)
	if alpha <= 0 {
		return
	}
	rect := el.ScreenRect(scroll)

	if el.Color.A > 0 || el.Image != nil {
		if el.BlurRadius() >= 0.5 {
			r.drawBlurred(target, el, rect, alpha)
		} else {
			r.drawBox(target, el, rect, 0, 0, alpha)
		}
	}

	if len(el.children) == 0 {
		return
	}
	childTarget := target
	if el.Clip {
		clip := image.Rect(int(rect.X), int(rect.Y), int(rect.Right()), int(rect.Bottom())).
			Intersect(target.Bounds())
		if clip.Empty() {
			return
		}
		childTarget = target.SubImage(clip).(*ebiten.Image)
	}
	for _, c := range el.children {
		r.drawElement(childTarget, c, scroll, alpha)
	}
}

// drawBox draws one copy of the element's fill or image into rect shifted
// by (dx, dy), applying scale and skew around the box center.
func (r *pageRenderer) drawBox(target *ebiten.Image, el *Element, rect Rect, dx, dy, alpha float64) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	src := el.Image
	var sw, sh float64
	if src == nil {
		src = ensureWhitePixel()
		sw, sh = 1, 1
	} else {
		b := src.Bounds()
		sw, sh = float64(b.Dx()), float64(b.Dy())
	}

	op := &r.op
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Filter = ebiten.FilterLinear

	op.GeoM.Scale(rect.Width/sw, rect.Height/sh)
	op.GeoM.Translate(-rect.Width/2, -rect.Height/2)
	op.GeoM.Scale(el.ScaleX, el.ScaleY)
	if el.SkewX != 0 {
		op.GeoM.Skew(el.SkewX, 0)
	}
	op.GeoM.Translate(rect.X+rect.Width/2+dx, rect.Y+rect.Height/2+dy)

	c := el.Color
	if el.Image != nil && c.A == 0 {
		c = ColorWhite
	}
	a := float32(c.A * alpha)
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	target.DrawImage(src, op)
}

// drawBlurred draws the element's box into an offscreen image, blurs it and
// composites the result at alpha.
func (r *pageRenderer) drawBlurred(target *ebiten.Image, el *Element, rect Rect, alpha float64) {
	px, py := blurPadding(el, rect)
	w := int(math.Ceil(rect.Width + 2*px))
	h := int(math.Ceil(rect.Height + 2*py))
	if w <= 0 || h <= 0 {
		return
	}
	src := r.pool.Acquire(w, h)
	dst := r.pool.Acquire(w, h)
	local := Rect{X: px, Y: py, Width: rect.Width, Height: rect.Height}
	r.drawBox(src, el, local, 0, 0, 1)
	r.blur.Apply(src, dst, int(math.Ceil(el.BlurRadius())))

	op := &r.op
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(rect.X-px, rect.Y-py)
	a := float32(alpha)
	op.ColorScale.Scale(a, a, a, a)
	target.DrawImage(dst, op)

	r.pool.Release(src)
	r.pool.Release(dst)
}
