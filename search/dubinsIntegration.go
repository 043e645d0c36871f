package search

import (
	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/dubins"
)

//region Dubins integration

// shortestPath computes the shortest Dubins path between two states at
// the given turning radius.
func shortestPath(s1, s2 *common.State, radius float64) (path *dubins.Path, err int) {
	path = new(dubins.Path)
	err = dubins.ShortestPath(path, *s1.ToArrayPointer(), *s2.ToArrayPointer(), radius)
	return path, err
}

// GetPlan samples edge's Dubins path at ctx.DubinsInc resolution into a
// full common.Plan, annotating each sample with the map/dynamic-obstacle
// collision probability at that point in time for downstream publishing
// and visualization. Unlike Edge.UpdateTrueCost, this never mutates
// coverage -- it's read-only rendering of an already-costed edge.
func GetPlan(ctx *Context, edge *Edge) *common.Plan {
	if edge.DPath == nil {
		return nil
	}
	plan := new(common.Plan)
	plan.Start.Time = edge.Start.State.Time
	length := edge.DPath.Length()
	var q [3]float64
	for dist := 0.0; dist < length; dist += ctx.DubinsInc {
		if ret := edge.DPath.Sample(dist, q); ret != dubins.EDUBOK {
			break
		}
		t := plan.Start.Time + dist/ctx.MaxSpeed
		s := &common.State{X: q[0], Y: q[1], Heading: q[2], Speed: ctx.MaxSpeed, Time: t}
		if ctx.Map != nil && ctx.Map.IsBlocked(q[0], q[1]) {
			s.CollisionProbability = 1
		} else if ctx.Obstacles != nil {
			s.CollisionProbability = ctx.Obstacles.CollisionCost(q[0], q[1], t)
		}
		plan.AppendState(s)
	}
	return plan
}

//endregion
