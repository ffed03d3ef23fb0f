package scrollfx

import "time"

// Debouncer collapses a burst of Trigger calls into one callback that runs
// once the burst has been quiet for the settle window. It is polled from
// the render loop rather than using timers, so the callback always runs
// on the frame goroutine.
type Debouncer struct {
	clock    Clock
	settle   time.Duration
	fn       func()
	deadline time.Time
	armed    bool
	fires    int
}

// NewDebouncer creates a debouncer that calls fn after settle of quiet.
func NewDebouncer(clock Clock, settle time.Duration, fn func()) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{clock: clock, settle: settle, fn: fn}
}

// Trigger (re)starts the settle window.
func (d *Debouncer) Trigger() {
	d.deadline = d.clock.Now().Add(d.settle)
	d.armed = true
}

// Pending reports whether a callback is waiting for the window to settle.
func (d *Debouncer) Pending() bool { return d.armed }

// Fires returns how many times the callback has run.
func (d *Debouncer) Fires() int { return d.fires }

// Cancel drops a pending callback.
func (d *Debouncer) Cancel() { d.armed = false }

// Poll runs the callback if the window has settled. It returns true when
// the callback ran.
func (d *Debouncer) Poll() bool {
	if !d.armed || d.clock.Now().Before(d.deadline) {
		return false
	}
	d.armed = false
	d.fires++
	if d.fn != nil {
		d.fn()
	}
	return true
}
