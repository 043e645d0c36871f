package ribbon

import (
	"fmt"
	"math"
	"sort"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/tsp"
)

// Heuristic selects how Manager.ApproxToGo estimates remaining coverage
// cost. Numeric values match the "heuristic 0..4" configuration option.
type Heuristic int

const (
	MaxDistance Heuristic = iota
	TspPointRobotNoSplitAllRibbons
	TspPointRobotNoSplitKRibbons
	TspDubinsNoSplitAllRibbons
	TspDubinsNoSplitKRibbons
)

// maxRibbonsForAllRibbonsHeuristic bounds how large the uncovered-ribbon
// count may grow before an "AllRibbons" heuristic variant is swapped for
// its cheaper "KRibbons" counterpart for that call, per
// changeHeuristicIfTooManyRibbons.
const maxRibbonsForAllRibbonsHeuristic = 10

// Manager is the ordered collection of uncovered (or partially covered)
// ribbons plus the heuristic used to estimate remaining coverage cost.
type Manager struct {
	Ribbons       []Ribbon
	heuristic     Heuristic
	turningRadius float64
	k             int
}

// NewManager constructs a RibbonManager with the given heuristic,
// turning radius, and K (used by the KRibbons variants). The turning
// radius is stored but no heuristic reads it.
func NewManager(heuristic Heuristic, turningRadius float64, k int) Manager {
	if k <= 0 {
		k = 5
	}
	return Manager{heuristic: heuristic, turningRadius: turningRadius, k: k}
}

// SetHeuristic updates the heuristic used by ApproxToGo.
func (m *Manager) SetHeuristic(h Heuristic) {
	m.heuristic = h
}

// Heuristic returns the currently configured heuristic.
func (m *Manager) Heuristic() Heuristic {
	return m.heuristic
}

// Add inserts a ribbon. No-op if a ribbon with equivalent endpoints
// already exists.
func (m *Manager) Add(x1, y1, x2, y2 float64) {
	r := New(x1, y1, x2, y2)
	for i := range m.Ribbons {
		if m.Ribbons[i].sameEndpoints(&r) {
			return
		}
	}
	m.Ribbons = append(m.Ribbons, r)
}

// Clear removes all ribbons.
func (m *Manager) Clear() {
	m.Ribbons = nil
}

// Clone returns a deep copy of m, so that covering ribbons on the clone
// (e.g. while expanding a search.Vertex) never mutates m or any other
// clone taken from it. This is the copy-on-write snapshot search.Vertex
// takes of its parent's coverage state.
func (m *Manager) Clone() Manager {
	out := *m
	if m.Ribbons != nil {
		out.Ribbons = make([]Ribbon, len(m.Ribbons))
		for i := range m.Ribbons {
			out.Ribbons[i] = m.Ribbons[i].clone()
		}
	}
	return out
}

// Done reports whether every ribbon is fully covered (or there are none).
func (m *Manager) Done() bool {
	for i := range m.Ribbons {
		if !m.Ribbons[i].Done() {
			return false
		}
	}
	return true
}

// Cover projects (x, y) onto each ribbon and, for any ribbon within W/2
// perpendicular distance, marks a length-W interval around the
// projection as covered, splitting the ribbon if that leaves two
// uncovered remainders.
func (m *Manager) Cover(x, y float64) {
	w := Width()
	var next []Ribbon
	for i := range m.Ribbons {
		r := m.Ribbons[i]
		t, perp := r.project(x, y)
		if perp <= w/2 {
			r.coverAround(t, w)
		}
		if r.Done() {
			continue
		}
		next = append(next, r.splitOnUncovered()...)
	}
	m.Ribbons = next
}

// CoverBetween is equivalent to sweeping Cover along the segment from p1
// to p2, at a step fine enough not to miss narrow ribbons.
func (m *Manager) CoverBetween(p1, p2 common.State) {
	dist := p1.DistanceTo(&p2)
	if dist == 0 {
		m.Cover(p1.X, p1.Y)
		return
	}
	step := Width() / 2
	if step <= 0 {
		step = 1
	}
	steps := int(math.Ceil(dist / step))
	for i := 0; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		m.Cover(p1.X+(p2.X-p1.X)*frac, p1.Y+(p2.Y-p1.Y)*frac)
	}
}

// TotalUncoveredLength sums the uncovered length remaining across every
// ribbon. Used by search.Edge.UpdateTrueCost to measure how much an
// edge's coverage leg actually covered.
func (m *Manager) TotalUncoveredLength() float64 {
	var total float64
	for i := range m.Ribbons {
		total += m.Ribbons[i].uncoveredLength()
	}
	return total
}

// uncoveredRibbons returns pointers to the ribbons that aren't fully
// covered -- after Cover/CoverBetween every retained ribbon has some
// uncovered length, so this is currently equivalent to all of m.Ribbons,
// but callers shouldn't rely on that invariant directly.
func (m *Manager) uncoveredRibbons() []*Ribbon {
	out := make([]*Ribbon, 0, len(m.Ribbons))
	for i := range m.Ribbons {
		if !m.Ribbons[i].Done() {
			out = append(out, &m.Ribbons[i])
		}
	}
	return out
}

// FindStatesOnRibbonsOnCircle yields sample states lying on uncovered
// ribbons whose distance to s is close to r, with heading set to the
// ribbon's orientation in both directions.
func (m *Manager) FindStatesOnRibbonsOnCircle(s common.State, r float64) common.Path {
	const band = 1.0
	var out common.Path
	for _, rib := range m.uncoveredRibbons() {
		for _, u := range rib.UncoveredIntervals() {
			for _, t := range []float64{u.Start, u.End, (u.Start + u.End) / 2} {
				x, y := rib.pointAt(t)
				d := math.Hypot(x-s.X, y-s.Y)
				if math.Abs(d-r) <= band {
					h := rib.Heading()
					out = append(out, common.State{X: x, Y: y, Heading: h})
					out = append(out, common.State{X: x, Y: y, Heading: wrap(h + math.Pi)})
				}
			}
		}
	}
	return out
}

// FindNearStatesOnRibbons yields sample states on uncovered ribbons
// within r of s.
func (m *Manager) FindNearStatesOnRibbons(s common.State, r float64) common.Path {
	var out common.Path
	for _, rib := range m.uncoveredRibbons() {
		for _, u := range rib.UncoveredIntervals() {
			for _, t := range []float64{u.Start, u.End, (u.Start + u.End) / 2} {
				x, y := rib.pointAt(t)
				if math.Hypot(x-s.X, y-s.Y) <= r {
					h := rib.Heading()
					out = append(out, common.State{X: x, Y: y, Heading: h})
					out = append(out, common.State{X: x, Y: y, Heading: wrap(h + math.Pi)})
				}
			}
		}
	}
	return out
}

// NearestUncoveredState returns the closest point still needing coverage
// to s, with heading set to that ribbon's orientation, and false if
// every ribbon is already covered. Used by the planner to always keep
// one candidate edge heading toward uncovered ribbon even when none of
// the K nearest samples are useful.
func (m *Manager) NearestUncoveredState(s common.State) (common.State, bool) {
	uncovered := m.uncoveredRibbons()
	if len(uncovered) == 0 {
		return common.State{}, false
	}
	var best common.State
	bestD := math.MaxFloat64
	for _, r := range uncovered {
		for _, iv := range r.UncoveredIntervals() {
			for _, t := range []float64{iv.Start, iv.End} {
				x, y := r.pointAt(t)
				if d := math.Hypot(x-s.X, y-s.Y); d < bestD {
					bestD, best = d, common.State{X: x, Y: y, Heading: r.Heading()}
				}
			}
		}
	}
	return best, true
}

// ChangeHeuristicIfTooManyRibbons falls an "AllRibbons" heuristic back to
// its "KRibbons" counterpart for this call only, if the uncovered-ribbon
// count exceeds maxRibbonsForAllRibbonsHeuristic. Should be called once
// per planning iteration, on the RibbonManager copy the planner owns --
// it mutates that copy's heuristic, not any shared configuration.
func (m *Manager) ChangeHeuristicIfTooManyRibbons() {
	if len(m.uncoveredRibbons()) <= maxRibbonsForAllRibbonsHeuristic {
		return
	}
	switch m.heuristic {
	case TspPointRobotNoSplitAllRibbons:
		m.heuristic = TspPointRobotNoSplitKRibbons
	case TspDubinsNoSplitAllRibbons:
		m.heuristic = TspDubinsNoSplitKRibbons
	}
}

// ApproxToGo is a heuristic lower bound on remaining cost from s to full
// coverage, in the same units as planner true-cost (time). Must never
// overestimate the true remaining cost for A* admissibility; see the
// individual heuristic's doc comment for why each bound holds.
func (m *Manager) ApproxToGo(s common.State, maxSpeed float64) float64 {
	uncovered := m.uncoveredRibbons()
	if len(uncovered) == 0 {
		return 0
	}
	switch m.heuristic {
	case MaxDistance:
		return m.approxToGoMaxDistance(s, uncovered, maxSpeed)
	case TspPointRobotNoSplitAllRibbons:
		return m.approxToGoTsp(s, uncovered, maxSpeed, false)
	case TspPointRobotNoSplitKRibbons:
		return m.approxToGoTsp(s, uncovered, maxSpeed, true)
	case TspDubinsNoSplitAllRibbons:
		return m.approxToGoTsp(s, uncovered, maxSpeed, false)
	case TspDubinsNoSplitKRibbons:
		return m.approxToGoTsp(s, uncovered, maxSpeed, true)
	default:
		return m.approxToGoMaxDistance(s, uncovered, maxSpeed)
	}
}

// approxToGoMaxDistance is the max, over uncovered ribbons, of the
// straight-line distance from s to the nearer uncovered endpoint plus the
// uncovered length of that ribbon, divided by maxSpeed. It is admissible
// because driving any ribbon requires at least traveling its uncovered
// length, and reaching the nearer end of the ribbon that dominates this
// max requires at least that much straight-line travel.
func (m *Manager) approxToGoMaxDistance(s common.State, uncovered []*Ribbon, maxSpeed float64) float64 {
	var best float64
	for _, r := range uncovered {
		intervals := r.UncoveredIntervals()
		var remaining float64
		for _, iv := range intervals {
			remaining += iv.End - iv.Start
		}
		x1, y1 := r.pointAt(intervals[0].Start)
		x2, y2 := r.pointAt(intervals[len(intervals)-1].End)
		d1 := math.Hypot(x1-s.X, y1-s.Y)
		d2 := math.Hypot(x2-s.X, y2-s.Y)
		d := math.Min(d1, d2)
		if v := d + remaining; v > best {
			best = v
		}
	}
	return best / maxSpeed
}

// approxToGoTsp solves a greedy nearest-neighbor TSP over ribbon
// endpoints (all uncovered ribbons, or only the nearest K when kOnly is
// set) treating travel as straight-line (point-robot) or Dubins-limited,
// and adds each visited ribbon's uncovered length -- the travel cost a
// tour must pay to cover all chosen ribbons. Dubins path length is always
// at least the straight-line distance between its endpoints, so using the
// straight-line distance as the per-edge metric keeps this admissible for
// both the point-robot and (nominally) Dubins heuristic variants. Each
// Dubins variant computes exactly what its point-robot counterpart does:
// the KRibbons variants restrict to the K nearest under Euclidean
// distance, the AllRibbons variants use every uncovered ribbon, and no
// variant applies a curvature-aware bound.
func (m *Manager) approxToGoTsp(s common.State, uncovered []*Ribbon, maxSpeed float64, kOnly bool) float64 {
	ribbons := uncovered
	if kOnly && len(uncovered) > m.k {
		ribbons = nearestK(s, uncovered, m.k)
	}
	var endpoints common.Path
	var totalLength float64
	for _, r := range ribbons {
		for _, iv := range r.UncoveredIntervals() {
			x1, y1 := r.pointAt(iv.Start)
			x2, y2 := r.pointAt(iv.End)
			endpoints = append(endpoints, common.State{X: x1, Y: y1})
			endpoints = append(endpoints, common.State{X: x2, Y: y2})
			totalLength += iv.End - iv.Start
		}
	}
	if len(endpoints) == 0 {
		return 0
	}
	solver := tsp.NewSolver(endpoints)
	travel := solver.Solve(s.X, s.Y, endpoints)
	return (travel + totalLength) / maxSpeed
}

func nearestK(s common.State, ribbons []*Ribbon, k int) []*Ribbon {
	type distRibbon struct {
		r *Ribbon
		d float64
	}
	ranked := make([]distRibbon, len(ribbons))
	for i, r := range ribbons {
		intervals := r.UncoveredIntervals()
		x1, y1 := r.pointAt(intervals[0].Start)
		x2, y2 := r.pointAt(intervals[len(intervals)-1].End)
		d := math.Min(math.Hypot(x1-s.X, y1-s.Y), math.Hypot(x2-s.X, y2-s.Y))
		ranked[i] = distRibbon{r: r, d: d}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].d < ranked[j].d })
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]*Ribbon, k)
	for i := 0; i < k; i++ {
		out[i] = ranked[i].r
	}
	return out
}

func (m *Manager) String() string {
	return fmt.Sprintf("RibbonManager{%d ribbons, heuristic=%d}", len(m.Ribbons), m.heuristic)
}
