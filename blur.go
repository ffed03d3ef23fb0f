package scrollfx

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// texturePool manages reusable offscreen images keyed by power-of-two
// dimensions. After warmup, Acquire/Release do not allocate.
type texturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
func (p *texturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool. It is cleared on the next Acquire.
func (p *texturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	key := poolKey(b.Dx(), b.Dy())
	p.buckets[key] = append(p.buckets[key], img)
}

func (p *texturePool) dispose() {
	for key, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(p.buckets, key)
	}
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// kawaseBlur blurs by repeated half-size downscales and upscales with
// linear filtering. log2(radius) passes, no shader needed.
type kawaseBlur struct {
	temps []*ebiten.Image
	op    ebiten.DrawImageOptions
}

// blurPasses returns the number of downscale passes for radius.
func blurPasses(radius int) int {
	if radius <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(radius))))
}

// Apply renders src blurred by radius pixels into dst.
func (k *kawaseBlur) Apply(src, dst *ebiten.Image, radius int) {
	op := &k.op
	if radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}
	passes := blurPasses(radius)
	k.resize(passes)

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if t := k.temps[i]; t == nil || t.Bounds().Dx() != w || t.Bounds().Dy() != h {
			if t != nil {
				t.Deallocate()
			}
			k.temps[i] = ebiten.NewImage(w, h)
		} else {
			t.Clear()
		}
		k.scaleInto(k.temps[i], current)
		current = k.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		k.temps[i].Clear()
		k.scaleInto(k.temps[i], current)
		current = k.temps[i]
	}
	k.scaleInto(dst, current)
}

// resize keeps exactly n temp slots, freeing images left over from a
// larger radius.
func (k *kawaseBlur) resize(n int) {
	for len(k.temps) < n {
		k.temps = append(k.temps, nil)
	}
	for i := n; i < len(k.temps); i++ {
		if k.temps[i] != nil {
			k.temps[i].Deallocate()
			k.temps[i] = nil
		}
	}
	k.temps = k.temps[:n]
}

func (k *kawaseBlur) scaleInto(dst, src *ebiten.Image) {
	op := &k.op
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Scale(
		float64(dst.Bounds().Dx())/float64(src.Bounds().Dx()),
		float64(dst.Bounds().Dy())/float64(src.Bounds().Dy()),
	)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// dispose frees the intermediate images.
func (k *kawaseBlur) dispose() {
	for i, t := range k.temps {
		if t != nil {
			t.Deallocate()
			k.temps[i] = nil
		}
	}
	k.temps = k.temps[:0]
}

// blurPadding returns the horizontal and vertical margin an offscreen copy
// of el needs so scale, skew and the blur itself are not clipped.
func blurPadding(el *Element, rect Rect) (px, py float64) {
	r := math.Ceil(el.BlurRadius())
	sx := math.Max(math.Abs(el.ScaleX), 1)
	sy := math.Max(math.Abs(el.ScaleY), 1)
	skew := math.Abs(math.Tan(el.SkewX)) * rect.Height * sy / 2
	px = math.Ceil(rect.Width*(sx-1)/2+skew) + r
	py = math.Ceil(rect.Height*(sy-1)/2) + r
	return px, py
}
