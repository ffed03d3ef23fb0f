package scrollfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// ErrGraphicsUnavailable disables GPU effects when no shader context exists.
	ErrGraphicsUnavailable = errors.New("scrollfx: graphics context unavailable")
	// ErrReducedMotion disables non-essential motion.
	ErrReducedMotion = errors.New("scrollfx: reduced motion requested")
	// ErrEffectDisabled is returned for effects switched off in config.
	ErrEffectDisabled = errors.New("scrollfx: effect disabled by config")
)

// noiseShaderSrc renders three octaves of value noise drifting with time
// and scroll, plus a ripple centered on the pointer. Pointer uses a
// bottom-left origin (Y up).
const noiseShaderSrc = `//kage:unit pixels
package main

var Time float
var Scroll float
var Pointer vec2
var Resolution vec2

func hash(p vec2) float {
	return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453)
}

func noise(p vec2) float {
	i := floor(p)
	f := fract(p)
	u := f * f * (3.0 - 2.0*f)
	a := hash(i)
	b := hash(i + vec2(1, 0))
	c := hash(i + vec2(0, 1))
	d := hash(i + vec2(1, 1))
	return mix(mix(a, b, u.x), mix(c, d, u.x), u.y)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	frag := vec2(dst.x, Resolution.y-dst.y)
	uv := frag / Resolution.y
	t := Time * 0.0001

	p := uv*3.0 + vec2(0, Scroll*0.0005)
	n := 0.0
	amp := 0.5
	for i := 0; i < 3; i++ {
		n += amp * noise(p+vec2(t*float(i+1), t))
		p *= 2.0
		amp *= 0.5
	}

	d := distance(frag, Pointer) / Resolution.y
	ripple := sin(d*40.0-Time*0.004) * exp(-d*6.0) * 0.08

	v := clamp(n+ripple, 0, 1)
	base := mix(vec3(0.04, 0.04, 0.07), vec3(0.20, 0.13, 0.34), v)
	return vec4(base, 1)
}
`

// ShaderConfig configures the background effect.
type ShaderConfig struct {
	Enabled bool `yaml:"enabled"`
	// MaxDeviceScale caps the device pixel ratio used for the render
	// resolution. Default 2.
	MaxDeviceScale float64 `yaml:"max_device_scale"`
}

// DefaultShaderConfig returns the background defaults.
func DefaultShaderConfig() ShaderConfig {
	return ShaderConfig{Enabled: true, MaxDeviceScale: 2}
}

// ShaderUniforms is written once per rendered frame.
type ShaderUniforms struct {
	// Time is milliseconds since the effect started (visible time only).
	Time float64
	// ScrollOffset is the scroll engine position.
	ScrollOffset float64
	// Pointer is in render pixels with a bottom-left origin.
	Pointer Vec2
	// Resolution is the render target size in pixels.
	Resolution Vec2
}

// ShaderCompiler compiles Kage source. ebiten.NewShader is the default.
type ShaderCompiler func(src []byte) (*ebiten.Shader, error)

// Background is the shader effect variant: DisabledBackground or
// *ActiveBackground. NewBackground decides which before any side effect.
type Background interface {
	Active() bool
	Close()
}

// DisabledBackground is the no-op variant. Reason says why.
type DisabledBackground struct {
	Reason error
}

func (DisabledBackground) Active() bool { return false }
func (DisabledBackground) Close()       {}

// BackgroundDeps are the collaborators of the shader background.
type BackgroundDeps struct {
	Page   *Page
	Loop   *RenderLoop
	Scroll ScrollSource
	Events *EventHub
	Env    Environment
	// Compile defaults to ebiten.NewShader.
	Compile ShaderCompiler
}

// ActiveBackground renders the noise field into a full-viewport canvas
// element behind the page.
type ActiveBackground struct {
	cfg    ShaderConfig
	page   *Page
	scroll ScrollSource
	shader *ebiten.Shader

	canvas   *Element
	image    *ebiten.Image
	uniforms ShaderUniforms
	params   map[string]any
	shaderOp ebiten.DrawRectShaderOptions

	viewport  Viewport
	pointer   Vec2
	startedAt float64

	frameSub   Handle
	pointerSub Handle
	resizeSub  Handle
	closed     bool
}

// NewBackground performs every capability check and returns either a
// DisabledBackground (no canvas, no listeners) or a running
// *ActiveBackground.
func NewBackground(deps BackgroundDeps, cfg ShaderConfig) Background {
	if !cfg.Enabled {
		return DisabledBackground{Reason: ErrEffectDisabled}
	}
	if deps.Env.ReducedMotion() {
		return DisabledBackground{Reason: ErrReducedMotion}
	}
	if !deps.Env.GraphicsAvailable() {
		return DisabledBackground{Reason: ErrGraphicsUnavailable}
	}
	compile := deps.Compile
	if compile == nil {
		compile = ebiten.NewShader
	}
	shader, err := compile([]byte(noiseShaderSrc))
	if err != nil {
		return DisabledBackground{Reason: fmt.Errorf("compile background shader: %w: %v", ErrGraphicsUnavailable, err)}
	}
	if cfg.MaxDeviceScale <= 0 {
		cfg.MaxDeviceScale = DefaultShaderConfig().MaxDeviceScale
	}

	b := &ActiveBackground{
		cfg:    cfg,
		page:   deps.Page,
		scroll: deps.Scroll,
		shader: shader,
		params: make(map[string]any, 4),
	}
	vp := deps.Env.Viewport()
	b.canvas = NewElement("shader-canvas", Rect{Width: vp.Width, Height: vp.Height}, "shader-canvas")
	b.canvas.Layer = -1
	b.canvas.Color = Color{}
	deps.Page.AddFixed(b.canvas)
	b.resize(vp)

	if p, ok := deps.Events.Pointer(); ok {
		b.pointer = p
	}
	b.pointerSub = deps.Events.OnPointerMove(func(p Vec2) { b.pointer = p })
	b.resizeSub = deps.Events.OnResize(b.resize)
	b.startedAt = deps.Loop.Elapsed()
	b.frameSub = deps.Loop.Add(b.frame)
	return b
}

// Active reports true until Close.
func (b *ActiveBackground) Active() bool { return !b.closed }

// Canvas returns the inserted canvas element.
func (b *ActiveBackground) Canvas() *Element { return b.canvas }

// Uniforms returns the values written on the last frame.
func (b *ActiveBackground) Uniforms() ShaderUniforms { return b.uniforms }

// deviceScale returns the capped device pixel ratio.
func (b *ActiveBackground) deviceScale() float64 {
	s := b.viewport.DeviceScale
	if s <= 0 {
		s = 1
	}
	return math.Min(s, b.cfg.MaxDeviceScale)
}

func (b *ActiveBackground) resize(vp Viewport) {
	b.viewport = vp
	b.canvas.Box = Rect{Width: vp.Width, Height: vp.Height}
	s := b.deviceScale()
	b.uniforms.Resolution = Vec2{X: math.Ceil(vp.Width * s), Y: math.Ceil(vp.Height * s)}
}

func (b *ActiveBackground) frame(f Frame) {
	if b.closed {
		return
	}
	s := b.deviceScale()
	rel := Vec2{X: b.pointer.X - b.canvas.Box.X, Y: b.pointer.Y - b.canvas.Box.Y}
	b.uniforms.Time = (f.Elapsed - b.startedAt) * 1000
	b.uniforms.ScrollOffset = f.Scroll.Position
	b.uniforms.Pointer = Vec2{X: rel.X * s, Y: b.uniforms.Resolution.Y - rel.Y*s}
}

// Render draws the shader into the canvas image. Called from Site.Draw.
func (b *ActiveBackground) Render() {
	if b.closed {
		return
	}
	w, h := int(b.uniforms.Resolution.X), int(b.uniforms.Resolution.Y)
	if w <= 0 || h <= 0 {
		return
	}
	if b.image == nil || b.image.Bounds().Dx() != w || b.image.Bounds().Dy() != h {
		if b.image != nil {
			b.image.Deallocate()
		}
		b.image = ebiten.NewImage(w, h)
		b.canvas.Image = b.image
	}
	b.params["Time"] = float32(b.uniforms.Time)
	b.params["Scroll"] = float32(b.uniforms.ScrollOffset)
	b.params["Pointer"] = []float32{float32(b.uniforms.Pointer.X), float32(b.uniforms.Pointer.Y)}
	b.params["Resolution"] = []float32{float32(w), float32(h)}
	b.shaderOp.Uniforms = b.params
	b.image.DrawRectShader(w, h, b.shader, &b.shaderOp)
}

// Close cancels the frame subscription, removes the pointer and resize
// listeners and the canvas. Safe to call more than once.
func (b *ActiveBackground) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.frameSub.Remove()
	b.pointerSub.Remove()
	b.resizeSub.Remove()
	b.page.Remove(b.canvas)
	b.canvas.Image = nil
	if b.image != nil {
		b.image.Deallocate()
		b.image = nil
	}
}
