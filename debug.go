package scrollfx

import (
	"fmt"
	"io"
	"os"
	"time"
)

// logger writes "[scrollfx]" prefixed lines. Component failures always go
// out; per-frame chatter only when debug is on.
type logger struct {
	w     io.Writer
	debug bool
}

func newLogger(w io.Writer, debug bool) *logger {
	if w == nil {
		w = os.Stderr
	}
	return &logger{w: w, debug: debug}
}

func (l *logger) logf(format string, args ...any) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.w, "[scrollfx] "+format+"\n", args...)
}

func (l *logger) debugf(format string, args ...any) {
	if l == nil || !l.debug {
		return
	}
	l.logf(format, args...)
}

// frameStats holds per-frame timing and subscription counts.
// Only populated when Config.Debug is true.
type frameStats struct {
	inputTime   time.Duration
	flushTime   time.Duration
	drawTime    time.Duration
	triggers    int
	active      int
	subscribers int
}

// debugStatsInterval is how many frames pass between stats lines.
const debugStatsInterval = 120

// debugLog prints timing and trigger stats every debugStatsInterval frames.
func (s *Site) debugLog(stats frameStats) {
	if !s.log.debug || s.frames%debugStatsInterval != 0 {
		return
	}
	st := s.engine.State()
	s.log.debugf("input: %v | flush: %v | draw: %v | total: %v",
		stats.inputTime, stats.flushTime, stats.drawTime,
		stats.inputTime+stats.flushTime+stats.drawTime)
	s.log.debugf("scroll: %.1f/%.1f | velocity: %.2f | triggers: %d (%d active) | subscribers: %d",
		st.Position, st.Limit, st.Velocity, stats.triggers, stats.active, stats.subscribers)
}

// countActive counts triggers currently in the active state.
func countActive(triggers []*Trigger) int {
	n := 0
	for _, t := range triggers {
		if t.State() == TriggerActive {
			n++
		}
	}
	return n
}
