// Package ribbon tracks coverage of a set of oriented line segments
// ("ribbons") that the vehicle must drive over, and the heuristics used by
// the planner to estimate remaining coverage cost.
package ribbon

import (
	"math"
	"sync"

	"github.com/afb2001/CCOM_planner/common"
)

const endpointTolerance = 1e-9

var (
	widthMutex sync.RWMutex
	width      = 2.0
)

// SetWidth sets the process-wide ribbon width. Mirrors the teacher's
// RibbonManager::setRibbonWidth, which is also process-wide configuration
// rather than per-ribbon.
func SetWidth(w float64) {
	widthMutex.Lock()
	defer widthMutex.Unlock()
	width = w
}

// Width returns the process-wide ribbon width.
func Width() float64 {
	widthMutex.RLock()
	defer widthMutex.RUnlock()
	return width
}

// interval is a closed sub-range [Start, End] of a ribbon's [0, Length]
// parameterization that has been covered.
type interval struct {
	Start, End float64
}

// Ribbon is an oriented line segment with a coverage record along its
// length. The zero value is not meaningful; use New.
type Ribbon struct {
	X1, Y1, X2, Y2 float64
	covered        []interval
}

// New creates a ribbon from its two endpoints.
func New(x1, y1, x2, y2 float64) Ribbon {
	return Ribbon{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Length returns the ribbon's total length.
func (r *Ribbon) Length() float64 {
	return math.Hypot(r.X2-r.X1, r.Y2-r.Y1)
}

// Heading returns the forward orientation of the ribbon, in [0, 2*pi).
func (r *Ribbon) Heading() float64 {
	h := math.Atan2(r.Y2-r.Y1, r.X2-r.X1)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}

// sameEndpoints reports whether r and other describe the same segment,
// in either direction.
func (r *Ribbon) sameEndpoints(other *Ribbon) bool {
	same := func(ax, ay, bx, by float64) bool {
		return math.Abs(ax-bx) < endpointTolerance && math.Abs(ay-by) < endpointTolerance
	}
	return (same(r.X1, r.Y1, other.X1, other.Y1) && same(r.X2, r.Y2, other.X2, other.Y2)) ||
		(same(r.X1, r.Y1, other.X2, other.Y2) && same(r.X2, r.Y2, other.X1, other.Y1))
}

// project projects (x, y) onto the ribbon's infinite line and returns the
// arc-length parameter t along [0, Length] of the closest point (clamped)
// and the perpendicular distance from (x, y) to that closest point.
func (r *Ribbon) project(x, y float64) (t float64, perpDist float64) {
	length := r.Length()
	if length == 0 {
		return 0, math.Hypot(x-r.X1, y-r.Y1)
	}
	dx, dy := r.X2-r.X1, r.Y2-r.Y1
	t = ((x-r.X1)*dx + (y-r.Y1)*dy) / (length * length) * length
	if t < 0 {
		t = 0
	} else if t > length {
		t = length
	}
	px := r.X1 + dx*(t/length)
	py := r.Y1 + dy*(t/length)
	return t, math.Hypot(x-px, y-py)
}

// pointAt returns the (x, y) at arc-length parameter t along the ribbon.
func (r *Ribbon) pointAt(t float64) (x, y float64) {
	length := r.Length()
	if length == 0 {
		return r.X1, r.Y1
	}
	frac := t / length
	return r.X1 + (r.X2-r.X1)*frac, r.Y1 + (r.Y2-r.Y1)*frac
}

// Done reports whether this ribbon's entire length is covered.
func (r *Ribbon) Done() bool {
	return r.uncoveredLength() <= endpointTolerance
}

func (r *Ribbon) uncoveredLength() float64 {
	length := r.Length()
	for _, c := range mergeIntervals(r.covered) {
		length -= (c.End - c.Start)
	}
	return length
}

// UncoveredIntervals returns the sub-intervals of [0, Length] that remain
// uncovered, in ascending order.
func (r *Ribbon) UncoveredIntervals() []interval {
	covered := mergeIntervals(r.covered)
	length := r.Length()
	var uncovered []interval
	cursor := 0.0
	for _, c := range covered {
		if c.Start > cursor {
			uncovered = append(uncovered, interval{Start: cursor, End: c.Start})
		}
		if c.End > cursor {
			cursor = c.End
		}
	}
	if cursor < length {
		uncovered = append(uncovered, interval{Start: cursor, End: length})
	}
	return uncovered
}

// markCovered marks [start, end] (clamped to [0, Length]) as covered.
func (r *Ribbon) markCovered(start, end float64) {
	length := r.Length()
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start >= end {
		return
	}
	r.covered = mergeIntervals(append(r.covered, interval{Start: start, End: end}))
}

// coverAround marks the interval of width w centered at t (clamped to the
// ribbon) as covered.
func (r *Ribbon) coverAround(t float64, w float64) {
	r.markCovered(t-w/2, t+w/2)
}

// splitOnUncovered splits the ribbon into its disjoint uncovered pieces,
// each returned as its own Ribbon with no recorded coverage (since by
// construction these pieces are exactly the remaining uncovered portion).
// Used after a coverage operation carves a ribbon into two remainders.
func (r *Ribbon) splitOnUncovered() []Ribbon {
	var out []Ribbon
	for _, u := range r.UncoveredIntervals() {
		x1, y1 := r.pointAt(u.Start)
		x2, y2 := r.pointAt(u.End)
		out = append(out, New(x1, y1, x2, y2))
	}
	return out
}

func mergeIntervals(in []interval) []interval {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]interval, len(in))
	copy(sorted, in)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Start > sorted[j].Start; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	merged := []interval{sorted[0]}
	for _, c := range sorted[1:] {
		last := &merged[len(merged)-1]
		if c.Start <= last.End+endpointTolerance {
			if c.End > last.End {
				last.End = c.End
			}
		} else {
			merged = append(merged, c)
		}
	}
	return merged
}

// clone returns a deep copy of r, so covering the clone cannot affect r.
func (r *Ribbon) clone() Ribbon {
	out := *r
	if r.covered != nil {
		out.covered = make([]interval, len(r.covered))
		copy(out.covered, r.covered)
	}
	return out
}

// Endpoints returns the two states at the ribbon's uncovered extremities,
// one per direction, with headings set to the ribbon's orientation (and
// its reverse, respectively).
func (r *Ribbon) Endpoints() (forward, backward common.State) {
	h := r.Heading()
	forward = common.State{X: r.X1, Y: r.Y1, Heading: h}
	backward = common.State{X: r.X2, Y: r.Y2, Heading: wrap(h + math.Pi)}
	return
}

func wrap(h float64) float64 {
	for h < 0 {
		h += 2 * math.Pi
	}
	for h >= 2*math.Pi {
		h -= 2 * math.Pi
	}
	return h
}
