package search

import (
	"fmt"
	"math"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/dubins"
)

//region Edge

// Edge is a Dubins connection between two vertices. CoverageAllowed
// marks edges flown at the coverage turning radius that are allowed to
// mark ribbons covered while traversing; transit edges (flown to reach
// a useful starting point) never are. Per the true-cost invariant, once
// trueCostSet is true the edge's feasibility (trueCost < math.MaxFloat64)
// never flips back to feasible -- an edge found to collide stays
// rejected even if re-evaluated.
type Edge struct {
	Start, End      *Vertex
	CoverageAllowed bool

	DPath *dubins.Path

	approxCost    float64
	approxCostSet bool
	trueCost      float64
	trueCostSet   bool

	Plan *common.Plan
}

// ApproxCost is the Dubins path length between Start and End divided by
// max speed, used as the edge weight while building candidate edges
// before the (expensive) true cost is computed.
func (e *Edge) ApproxCost(ctx *Context) float64 {
	if e.approxCostSet {
		return e.approxCost
	}
	radius := ctx.radiusFor(e.CoverageAllowed)
	path := new(dubins.Path)
	err := dubins.ShortestPath(path, *e.Start.State.ToArrayPointer(), *e.End.State.ToArrayPointer(), radius)
	if err != dubins.EDUBOK {
		e.approxCost = math.MaxFloat64
	} else {
		e.DPath = path
		e.approxCost = path.Length() / ctx.MaxSpeed * ctx.TimePenalty
	}
	e.approxCostSet = true
	return e.approxCost
}

// TrueCost returns the cached true cost, or math.MaxFloat64 if it hasn't
// been computed yet.
func (e *Edge) TrueCost() float64 {
	if e.trueCostSet {
		return e.trueCost
	}
	return math.MaxFloat64
}

// UpdateTrueCost samples the Dubins path at ctx.DubinsInc resolution,
// accumulating a map/dynamic-obstacle collision penalty and, for
// coverage-allowed edges, marking ribbons covered on a clone of Start's
// coverage (never mutating Start.Coverage itself). It sets End's
// coverage, time, and current (true) cost.
func (e *Edge) UpdateTrueCost(ctx *Context) float64 {
	if e.trueCostSet && e.trueCost == math.MaxFloat64 {
		return e.trueCost
	}
	if e.DPath == nil {
		e.ApproxCost(ctx)
	}
	if e.DPath == nil {
		e.trueCost, e.trueCostSet = math.MaxFloat64, true
		e.End.setCurrentCost(math.MaxFloat64)
		return e.trueCost
	}

	coverage := e.Start.Coverage.Clone()
	uncoveredBefore := coverage.TotalUncoveredLength()

	var collisionPenalty float64
	blocked := false
	startTime := e.Start.State.Time
	finalTime := startTime
	length := e.DPath.Length()
	var q [3]float64
	for dist := 0.0; dist < length; dist += ctx.DubinsInc {
		if ret := e.DPath.Sample(dist, q); ret != dubins.EDUBOK {
			break
		}
		t := startTime + dist/ctx.MaxSpeed
		finalTime = t
		if ctx.Map != nil && ctx.Map.IsBlocked(q[0], q[1]) {
			blocked = true
		} else if ctx.Obstacles != nil {
			collisionPenalty += ctx.CollisionPenalty * ctx.Obstacles.CollisionCost(q[0], q[1], t)
		}
		if e.CoverageAllowed {
			coverage.Cover(q[0], q[1])
		}
	}
	finalTime = startTime + length/ctx.MaxSpeed

	newlyCoveredLength := uncoveredBefore - coverage.TotalUncoveredLength()

	e.End.State.Time = finalTime
	e.End.Coverage = coverage

	// An edge is infeasible -- and stays rejected per the true-cost
	// invariant -- if it runs through blocked terrain, its accumulated
	// collision cost reaches the fatal threshold (the same weight used to
	// scale it into trueCost), or it would overrun the time horizon
	// measured from the search root's start time.
	remaining := common.TimeHorizon - (finalTime - ctx.StartStateTime)
	fatalCollision := ctx.CollisionPenalty > 0 && collisionPenalty >= ctx.CollisionPenalty
	exceedsLengthBudget := length > ctx.MaxSpeed*remaining
	if blocked || fatalCollision || exceedsLengthBudget {
		e.trueCost, e.trueCostSet = math.MaxFloat64, true
		e.End.setCurrentCost(math.MaxFloat64)
		return e.trueCost
	}

	netTime := e.netTime()
	e.trueCost = netTime*ctx.TimePenalty + collisionPenalty - newlyCoveredLength*ctx.CoveragePenalty
	e.trueCostSet = true

	e.End.setCurrentCost(e.Start.GetCurrentCost() + e.trueCost)
	return e.trueCost
}

func (e *Edge) netTime() float64 {
	if e.End.State.Time < e.Start.State.Time {
		logger.Error(fmt.Sprintf("found backwards edge: %s to %s",
			e.Start.State.String(), e.End.State.String()))
	}
	return e.End.State.Time - e.Start.State.Time
}

// contains is a convenience membership test.
func ContainsEdge(s []*Edge, e *Edge) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// EdgesFilter keeps only the edges satisfying f, in place.
func EdgesFilter(edges *[]*Edge, f func(edge *Edge) bool) {
	if edges == nil {
		return
	}
	b := (*edges)[:0]
	for _, x := range *edges {
		if f(x) {
			b = append(b, x)
		}
	}
	*edges = b
}

// RemoveEdgesEndingIn drops every edge in edges whose End is v.
func RemoveEdgesEndingIn(edges *[]*Edge, v *Vertex) {
	EdgesFilter(edges, func(e *Edge) bool {
		return e.End != v
	})
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s (true=%f)", e.Start.State.String(), e.End.State.String(), e.trueCost)
}

//endregion
