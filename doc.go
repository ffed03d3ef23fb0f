// Package scrollfx is a scroll-synchronized animation layer for [Ebitengine].
//
// A [Page] of rectangular elements is scrolled by a momentum [ScrollEngine].
// Every other component reads the engine's [ScrollState]: a [Registry] of
// scroll triggers, one [RenderLoop] that drives every per-frame effect, a
// pinned horizontal gallery ([Takeover]) and a Kage noise shader behind the
// page ([NewBackground]).
//
// # Quick start
//
// Build a page (in code or from YAML with [LoadPage]), then hand it to a
// [Site], which implements [ebiten.Game]:
//
//	page, err := scrollfx.LoadPage(layoutYAML)
//	if err != nil {
//		log.Fatal(err)
//	}
//	site, err := scrollfx.NewSite(page, scrollfx.DefaultConfig(), scrollfx.SiteOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	scrollfx.Run(site, scrollfx.RunConfig{Title: "Landing", Width: 1280, Height: 800})
//
// # Frame order
//
// Site.Update flushes a [FrameQueue] once per tick. The render loop's frame
// ticks the scroll engine first; the engine notifies the registry, which
// fires trigger callbacks in scroll order; then every loop subscriber sees
// the same [Frame]. Nothing reads a half-updated scroll position.
//
// # Elements and classes
//
// Components find their elements by name ("#gallery-track") and class
// (".reveal") and no-op when they are missing. Class names and every
// tunable come from [Config], loaded once with [LoadConfig]:
//
//   - .reveal     fade, slide, unblur and untilt on entry ([Reveals])
//   - .parallax   vertical drift across the viewport ([Parallax])
//   - .velocity   skew and blur by scroll speed ([VelocityEffect])
//   - .magnetic   pulled toward the pointer ([Magnetic])
//   - .link       grows the custom cursor ring ([Cursor])
//
// # Reduced motion
//
// With Config.Motion set to "reduced" (or SCROLLFX_REDUCED_MOTION=1) the
// shader, parallax, velocity and magnetic effects stay off and reveals
// become a single short fade.
//
// # Revocation
//
// Every frame subscription, listener and refresh hook returns a [Handle].
// Components that add elements to the page remove them in an idempotent
// Close.
//
// [Ebitengine]: https://ebitengine.org
package scrollfx
