package planner

import (
	"math"

	"github.com/afb2001/CCOM_planner/common"
)

// DubinsPlan is a dense, time-stamped sequence of states along the
// Dubins path the planner chose -- the previous iteration's output fed
// back in as a warm start, and collision-checked again against the
// latest obstacle snapshot before the planner trusts any of it.
type DubinsPlan struct {
	States []common.State
}

// Empty reports whether the plan has no states at all.
func (p *DubinsPlan) Empty() bool {
	return p == nil || len(p.States) == 0
}

// Sample interpolates the plan at time t, clamping to the first or last
// state if t falls outside the plan's time range. Returns false only for
// an empty plan.
func (p *DubinsPlan) Sample(t float64) (common.State, bool) {
	if p.Empty() {
		return common.State{}, false
	}
	states := p.States
	if t <= states[0].Time {
		return states[0], true
	}
	last := states[len(states)-1]
	if t >= last.Time {
		return last, true
	}
	for i := 1; i < len(states); i++ {
		if states[i].Time >= t {
			return interpolateState(states[i-1], states[i], t), true
		}
	}
	return last, true
}

func interpolateState(a, b common.State, t float64) common.State {
	frac := 0.0
	if b.Time > a.Time {
		frac = (t - a.Time) / (b.Time - a.Time)
	}
	lerp := func(x, y float64) float64 { return x + (y-x)*frac }
	return common.State{
		X:       lerp(a.X, b.X),
		Y:       lerp(a.Y, b.Y),
		Heading: a.Heading + a.HeadingDifference(&b)*frac,
		Speed:   lerp(a.Speed, b.Speed),
		Time:    t,
	}
}

// ChangeIntoSuffix trims the plan down to the portion at or after time t,
// the warm-start equivalent of "the vehicle has already flown everything
// before t". If t falls inside a sampling gap, the interpolated state at
// t is kept as the new first element.
func (p *DubinsPlan) ChangeIntoSuffix(t float64) {
	if p.Empty() {
		return
	}
	var out []common.State
	for _, s := range p.States {
		if s.Time >= t {
			out = append(out, s)
		}
	}
	if len(out) == 0 || out[0].Time > t {
		if s, ok := p.Sample(t); ok {
			out = append([]common.State{s}, out...)
		}
	}
	p.States = out
}

// HalfSecondSamples returns the plan resampled at a coarse, fixed
// half-second interval, cheap enough to collision-check edge by edge
// against the latest obstacle predictions before committing to a
// previous plan as a warm start.
func (p *DubinsPlan) HalfSecondSamples() []common.State {
	if p.Empty() {
		return nil
	}
	const step = 0.5
	start, end := p.States[0].Time, p.States[len(p.States)-1].Time
	out := make([]common.State, 0, int(math.Ceil((end-start)/step))+1)
	for t := start; t < end; t += step {
		if s, ok := p.Sample(t); ok {
			out = append(out, s)
		}
	}
	out = append(out, p.States[len(p.States)-1])
	return out
}
