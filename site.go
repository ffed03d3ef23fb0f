package scrollfx

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// SiteOptions are the host collaborators. Zero values select the live
// Ebitengine implementations.
type SiteOptions struct {
	// Env defaults to NewEbitenEnvironment. A non-nil Env also disables
	// reading real input, so tests and scripted runs see injected input only.
	Env Environment
	// Clock defaults to SystemClock.
	Clock Clock
	// Compile defaults to ebiten.NewShader.
	Compile ShaderCompiler
	// Log defaults to os.Stderr.
	Log io.Writer
}

// Site wires every component to one page and implements ebiten.Game.
// Update flushes the frame queue once per tick: the scroll engine ticks,
// triggers evaluate, then effects run in registration order.
type Site struct {
	cfg   Config
	page  *Page
	env   Environment
	clock Clock
	log   *logger

	queue    *FrameQueue
	engine   *ScrollEngine
	registry *Registry
	loop     *RenderLoop
	events   *EventHub
	animator *Animator
	compile  ShaderCompiler

	background Background
	takeover   *Takeover
	velocity   *VelocityEffect
	reveals    *Reveals
	parallax   *Parallax
	magnetic   *Magnetic
	cursor     *Cursor
	overlay    *Overlay
	disabled   map[string]error

	input           inputState
	realInput       bool
	injectQueue     []inputFrame
	runner          *ScriptRunner
	exitOnDone      bool
	screenshotQueue []string

	viewport Viewport
	resize   *Debouncer
	limitSub Handle
	ready    bool
	closed   bool
	frames   uint64
	drawTime time.Duration
}

// ErrNilPage is returned by NewSite without a page.
var ErrNilPage = errors.New("scrollfx: nil page")

// NewSite creates the scroll engine, trigger registry and render loop for
// page. Effects are initialized as soon as the viewport is known: right
// away when the environment reports one, otherwise on the first Layout.
func NewSite(page *Page, cfg Config, opts SiteOptions) (*Site, error) {
	if page == nil {
		return nil, ErrNilPage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Site{
		cfg:      cfg,
		page:     page,
		clock:    opts.Clock,
		log:      newLogger(opts.Log, cfg.Debug),
		queue:    &FrameQueue{},
		events:   &EventHub{},
		compile:  opts.Compile,
		disabled: make(map[string]error),
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	s.env = opts.Env
	if s.env == nil {
		s.env = NewEbitenEnvironment(cfg.ReducedMotion())
		s.realInput = true
	} else if cfg.ReducedMotion() && !s.env.ReducedMotion() {
		s.env = reducedEnvironment{s.env}
	}
	s.input.cfg = cfg.Input
	if s.input.cfg.WheelLine <= 0 {
		s.input.cfg = DefaultInputConfig()
	}

	s.engine = NewScrollEngine(cfg.Engine)
	s.viewport = s.env.Viewport()
	s.registry = NewRegistry(page, s.engine, s.viewport)
	s.limitSub = s.registry.OnRefresh(s.syncLimit)
	s.loop = NewRenderLoop(s.queue, s.engine, cfg.Loop)
	s.animator = NewAnimator(s.loop)

	settle := cfg.Settle
	if settle <= 0 {
		settle = DefaultConfig().Settle
	}
	s.resize = NewDebouncer(s.clock, settle, s.refresh)

	s.loop.Start()
	if s.viewport.Width > 0 && s.viewport.Height > 0 {
		s.page.SetViewportWidth(s.viewport.Width)
		s.initComponents()
	}
	return s, nil
}

// reducedEnvironment forces the reduced-motion preference on.
type reducedEnvironment struct {
	Environment
}

func (reducedEnvironment) ReducedMotion() bool { return true }

func (e reducedEnvironment) setViewport(w, h int) {
	if sink, ok := e.Environment.(viewportSink); ok {
		sink.setViewport(w, h)
	}
}

// initComponents constructs every effect. Each constructor runs isolated:
// an error or panic disables that effect and never blocks the others.
func (s *Site) initComponents() {
	s.ready = true
	s.initComponent("background", func() error {
		s.background = NewBackground(BackgroundDeps{
			Page:    s.page,
			Loop:    s.loop,
			Scroll:  s.engine,
			Events:  s.events,
			Env:     s.env,
			Compile: s.compile,
		}, s.cfg.Shader)
		if d, ok := s.background.(DisabledBackground); ok {
			return d.Reason
		}
		return nil
	})
	s.initComponent("takeover", func() (err error) {
		s.takeover, err = NewTakeover(s.page, s.registry, s.loop, s.env, s.clock, s.cfg.Takeover)
		return err
	})
	s.initComponent("velocity", func() (err error) {
		s.velocity, err = NewVelocityEffect(s.page, s.loop, s.env, s.cfg.Velocity)
		return err
	})
	s.initComponent("reveal", func() (err error) {
		s.reveals, err = NewReveals(s.page, s.registry, s.animator, s.env, s.cfg.Reveal)
		return err
	})
	s.initComponent("parallax", func() (err error) {
		s.parallax, err = NewParallax(s.page, s.registry, s.env, s.cfg.Parallax)
		return err
	})
	s.initComponent("magnetic", func() (err error) {
		s.magnetic, err = NewMagnetic(s.page, s.loop, s.events, s.engine, s.env, s.cfg.Magnetic)
		return err
	})
	s.initComponent("cursor", func() (err error) {
		s.cursor, err = NewCursor(s.page, s.loop, s.events, s.engine, s.env, s.cfg.Cursor)
		return err
	})
	if s.cfg.Overlay {
		s.overlay = newOverlay(s)
	}
	s.registry.Refresh()
}

func (s *Site) initComponent(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s: panic during init: %v", name, r)
			s.disabled[name] = err
			s.log.logf("%v", err)
		}
	}()
	err := fn()
	switch {
	case err == nil:
		s.log.debugf("%s: active", name)
	case errors.Is(err, ErrElementNotFound),
		errors.Is(err, ErrReducedMotion),
		errors.Is(err, ErrEffectDisabled),
		errors.Is(err, ErrGraphicsUnavailable):
		s.disabled[name] = err
		s.log.debugf("%s: disabled: %v", name, err)
	default:
		s.disabled[name] = err
		s.log.logf("%s: %v", name, err)
	}
}

// syncLimit re-measures the scrollable length. Runs after every registry
// refresh, so pin spacing is always reflected in the engine limit.
func (s *Site) syncLimit() {
	s.engine.SetLimit(s.page.ScrollLimit(s.registry.Viewport().Height))
}

// refresh is the settled-resize handler when the page has no takeover.
func (s *Site) refresh() {
	s.registry.SetViewport(s.viewport)
	s.registry.Refresh()
}

// Update implements ebiten.Game.
func (s *Site) Update() error {
	if s.closed {
		return nil
	}
	t0 := time.Now()
	if s.runner != nil {
		s.runner.step(s)
	}
	s.processInput()
	t1 := time.Now()

	s.loop.SetVisible(s.env.Visible())
	s.queue.Flush(s.clock.Now())
	if s.takeover == nil {
		s.resize.Poll()
	}
	s.frames++

	if s.log.debug {
		trigs := s.registry.Triggers()
		s.debugLog(frameStats{
			inputTime:   t1.Sub(t0),
			flushTime:   time.Since(t1),
			drawTime:    s.drawTime,
			triggers:    len(trigs),
			active:      countActive(trigs),
			subscribers: s.loop.Subscribers(),
		})
	}
	if s.exitOnDone && s.runner != nil && s.runner.Done() && len(s.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (s *Site) Draw(screen *ebiten.Image) {
	t0 := time.Now()
	if bg, ok := s.background.(*ActiveBackground); ok {
		bg.Render()
	}
	s.page.Draw(screen, s.engine.State().Position)
	if s.overlay != nil {
		s.overlay.Draw(screen)
	}
	s.flushScreenshots(screen)
	s.drawTime = time.Since(t0)
}

// Layout implements ebiten.Game. The page is laid out in device-independent
// pixels at the window size.
func (s *Site) Layout(outsideWidth, outsideHeight int) (int, int) {
	if float64(outsideWidth) != s.viewport.Width || float64(outsideHeight) != s.viewport.Height {
		s.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Resize applies a new viewport size. Fluid elements follow immediately;
// trigger boundaries, pins and the scroll limit are re-measured once the
// resize has settled.
func (s *Site) Resize(w, h float64) {
	if s.closed || w <= 0 || h <= 0 {
		return
	}
	if sink, ok := s.env.(viewportSink); ok {
		sink.setViewport(int(w), int(h))
	}
	vp := s.env.Viewport()
	if vp.Width != w || vp.Height != h {
		vp = Viewport{Width: w, Height: h, DeviceScale: vp.DeviceScale}
	}
	s.viewport = vp
	s.page.SetViewportWidth(vp.Width)
	if !s.ready {
		s.registry.SetViewport(vp)
		s.initComponents()
		return
	}
	s.events.EmitResize(vp)
	if s.takeover != nil {
		s.takeover.HandleResize(vp)
		return
	}
	s.resize.Trigger()
}

// ScrollToAnchor scrolls to the top of the named element. A missing
// element is logged and nothing moves.
func (s *Site) ScrollToAnchor(name string, opts ScrollToOptions) error {
	el, err := s.page.Require(name)
	if err != nil {
		s.log.logf("scroll to %s: %v", name, err)
		return err
	}
	s.engine.ScrollTo(el.DocumentRect().Y, opts)
	return nil
}

// Config returns the configuration the site was built with.
func (s *Site) Config() Config { return s.cfg }

// Page returns the document.
func (s *Site) Page() *Page { return s.page }

// Engine returns the scroll engine.
func (s *Site) Engine() *ScrollEngine { return s.engine }

// Registry returns the trigger registry.
func (s *Site) Registry() *Registry { return s.registry }

// Loop returns the render loop.
func (s *Site) Loop() *RenderLoop { return s.loop }

// Events returns the pointer and resize hub.
func (s *Site) Events() *EventHub { return s.events }

// Animator returns the shared tween driver.
func (s *Site) Animator() *Animator { return s.animator }

// Background returns the shader background variant, or nil before init.
func (s *Site) Background() Background { return s.background }

// Takeover returns the gallery controller, or nil when absent.
func (s *Site) Takeover() *Takeover { return s.takeover }

// Velocity returns the velocity effect, or nil when disabled.
func (s *Site) Velocity() *VelocityEffect { return s.velocity }

// Reveals returns the reveal effect, or nil when disabled.
func (s *Site) Reveals() *Reveals { return s.reveals }

// Parallax returns the parallax effect, or nil when disabled.
func (s *Site) Parallax() *Parallax { return s.parallax }

// Magnetic returns the magnetic effect, or nil when disabled.
func (s *Site) Magnetic() *Magnetic { return s.magnetic }

// Cursor returns the custom cursor, or nil when disabled.
func (s *Site) Cursor() *Cursor { return s.cursor }

// Overlay returns the debug overlay, or nil when off.
func (s *Site) Overlay() *Overlay { return s.overlay }

// Disabled returns why each absent effect is absent.
func (s *Site) Disabled() map[string]error { return maps.Clone(s.disabled) }

// Viewport returns the last applied viewport.
func (s *Site) Viewport() Viewport { return s.viewport }

// Frames returns the number of Update calls.
func (s *Site) Frames() uint64 { return s.frames }

// Close tears every component down in reverse order. Safe to call more
// than once.
func (s *Site) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.overlay != nil {
		s.overlay.Close()
	}
	if s.cursor != nil {
		s.cursor.Close()
	}
	if s.magnetic != nil {
		s.magnetic.Close()
	}
	if s.parallax != nil {
		s.parallax.Close()
	}
	if s.reveals != nil {
		s.reveals.Close()
	}
	if s.velocity != nil {
		s.velocity.Close()
	}
	s.takeover.Close()
	if s.background != nil {
		s.background.Close()
	}
	s.animator.Close()
	s.resize.Cancel()
	s.limitSub.Remove()
	s.loop.Stop()
	s.page.Dispose()
	s.registry.Close()
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowFPS turns on the debug overlay.
	ShowFPS bool
	// ExitWhenScriptDone ends the game loop once an attached script has
	// run and its screenshots are written.
	ExitWhenScriptDone bool
}

// Run opens a resizable window and runs the site until it is closed.
func Run(s *Site, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if s.cfg.Cursor.Enabled {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	if cfg.ShowFPS && s.overlay == nil {
		s.cfg.Overlay = true
		if s.ready {
			s.overlay = newOverlay(s)
		}
	}
	s.exitOnDone = cfg.ExitWhenScriptDone
	defer s.Close()
	return ebiten.RunGame(s)
}
