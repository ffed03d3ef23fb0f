package scrollfx

// EffectProxy carries a smoothed value. Each Step moves Current a fixed
// fraction of the way to Target:
//
//	current += (target - current) * rate
//
// With 0 < rate <= 1 the value never overshoots or diverges.
type EffectProxy struct {
	Current float64
	Target  float64
	rate    float64
}

// NewEffectProxy creates a proxy starting at start. Rates outside (0, 1]
// are clamped into range; a zero or negative rate becomes 1 (snap).
func NewEffectProxy(start, rate float64) EffectProxy {
	if rate <= 0 || rate > 1 || rate != rate {
		rate = 1
	}
	return EffectProxy{Current: start, Target: start, rate: rate}
}

// Rate returns the decay rate.
func (p *EffectProxy) Rate() float64 { return p.rate }

// Step advances one frame and returns the new value.
func (p *EffectProxy) Step() float64 {
	if p.rate == 0 {
		p.rate = 1
	}
	p.Current += (p.Target - p.Current) * p.rate
	return p.Current
}

// Snap jumps Current to v and retargets to v.
func (p *EffectProxy) Snap(v float64) {
	p.Current = v
	p.Target = v
}
