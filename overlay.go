package scrollfx

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayInterval is how often the readout text is rebuilt, in seconds.
const overlayInterval = 0.5

// Overlay is the on-screen debug readout: FPS/TPS, scroll register,
// trigger counts and the gallery mode. Text is rebuilt every half second.
type Overlay struct {
	site  *Site
	img   *ebiten.Image
	text  string
	since float64
	dirty bool
	sub   Handle
	op    ebiten.DrawImageOptions
}

func newOverlay(s *Site) *Overlay {
	o := &Overlay{site: s, since: overlayInterval}
	o.sub = s.loop.Add(o.frame)
	return o
}

// Text returns the last built readout.
func (o *Overlay) Text() string { return o.text }

func (o *Overlay) frame(f Frame) {
	o.since += f.Delta
	if o.since < overlayInterval && o.text != "" {
		return
	}
	o.since = 0
	o.text = o.build(f.Scroll)
	o.dirty = true
}

func (o *Overlay) build(st ScrollState) string {
	s := o.site
	trigs := s.registry.Triggers()
	mode := "none"
	if s.takeover != nil {
		mode = s.takeover.Mode().String()
	}
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\nscroll: %.0f / %.0f\nvelocity: %.2f\ntriggers: %d (%d active)\ngallery: %s",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		st.Position, st.Limit, st.Velocity,
		len(trigs), countActive(trigs), mode)
}

// Draw renders the readout in the top-left corner.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.text == "" {
		return
	}
	if o.img == nil {
		// Enough for five lines of debug font.
		o.img = ebiten.NewImage(220, 84)
		o.dirty = true
	}
	if o.dirty {
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text)
		o.dirty = false
	}
	o.op.GeoM.Reset()
	o.op.GeoM.Translate(8, 8)
	screen.DrawImage(o.img, &o.op)
}

// Close detaches the overlay and frees its image.
func (o *Overlay) Close() {
	o.sub.Remove()
	if o.img != nil {
		o.img.Deallocate()
		o.img = nil
	}
}
