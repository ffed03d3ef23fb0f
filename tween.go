package scrollfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenField pairs an element field with its end value.
type TweenField struct {
	Field *float64
	To    float64
}

// TweenGroup animates up to 4 float64 fields of an Element together. Call
// Update(dt) each frame, or hand it to an Animator. If the element is
// removed from its page the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	target *Element
	Done   bool
}

// NewTweenGroup creates a group that animates each field from its current
// value to To. Fields beyond the fourth are ignored.
func NewTweenGroup(el *Element, duration float32, fn ease.TweenFunc, fields ...TweenField) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{target: el}
	for _, f := range fields {
		if g.count == len(g.tweens) {
			break
		}
		g.tweens[g.count] = gween.New(float32(*f.Field), float32(f.To), duration, fn)
		g.fields[g.count] = f.Field
		g.count++
	}
	g.Done = g.count == 0
	return g
}

// Update advances all tweens by dt seconds and writes the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.Removed() {
		g.Done = true
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Stop marks the group done without writing further values.
func (g *TweenGroup) Stop() { g.Done = true }

// TweenAlpha animates el.Alpha.
func TweenAlpha(el *Element, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return NewTweenGroup(el, duration, fn, TweenField{&el.Alpha, to})
}

// TweenOffset animates el.OffsetX and el.OffsetY.
func TweenOffset(el *Element, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return NewTweenGroup(el, duration, fn, TweenField{&el.OffsetX, toX}, TweenField{&el.OffsetY, toY})
}

// Animator advances tween groups from the render loop and drops finished
// ones.
type Animator struct {
	groups []*TweenGroup
	sub    Handle
}

// NewAnimator subscribes an animator to loop.
func NewAnimator(loop *RenderLoop) *Animator {
	a := &Animator{}
	a.sub = loop.Add(func(f Frame) { a.Update(float32(f.Delta)) })
	return a
}

// Add starts driving g.
func (a *Animator) Add(g *TweenGroup) *TweenGroup {
	if !g.Done {
		a.groups = append(a.groups, g)
	}
	return g
}

// Active returns the number of running groups.
func (a *Animator) Active() int { return len(a.groups) }

// Update advances every group by dt seconds.
func (a *Animator) Update(dt float32) {
	live := a.groups[:0]
	for _, g := range a.groups {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(a.groups); i++ {
		a.groups[i] = nil
	}
	a.groups = live
}

// Close stops every group and detaches from the loop.
func (a *Animator) Close() {
	a.sub.Remove()
	for _, g := range a.groups {
		g.Stop()
	}
	a.groups = nil
}
