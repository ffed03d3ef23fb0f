package scrollfx

// ScrollState is the authoritative scroll register. Only the ScrollEngine
// writes it; every other component reads a snapshot through ScrollSource.
type ScrollState struct {
	// Position is the smoothed virtual scroll offset in pixels, always
	// within [0, Limit].
	Position float64
	// Velocity is the signed frame-to-frame change of Position (px/frame).
	Velocity float64
	// TargetPosition is where Position is converging to.
	TargetPosition float64
	// Limit is the maximum scroll offset (content length minus viewport).
	Limit float64
	// Frame counts engine ticks that moved Position.
	Frame uint64
}

// Progress returns Position as a fraction of Limit.
func (s ScrollState) Progress() float64 {
	if s.Limit <= 0 {
		return 0
	}
	return clamp01(s.Position / s.Limit)
}

// Direction returns +1 when scrolling forward, -1 backward, 0 when still.
func (s ScrollState) Direction() int {
	switch {
	case s.Velocity > 0:
		return 1
	case s.Velocity < 0:
		return -1
	}
	return 0
}

// ScrollSource is anything that exposes a frame-consistent ScrollState.
type ScrollSource interface {
	State() ScrollState
}
