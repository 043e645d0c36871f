package search

import (
	"fmt"
	"sort"

	"github.com/afb2001/CCOM_planner/common"
)

//region GetKClosest

// GetKClosestVertices connects sourceVertex to up to ctx.KNearest+1
// samples: the ctx.KNearest samples with the shortest approximate-cost
// edge that could still improve on goalCost, plus one edge reserved for
// the nearest still-uncovered ribbon point (so the search always has a
// way to make progress even when none of the random samples are useful).
func GetKClosestVertices(ctx *Context, sourceVertex *Vertex, samples []*Vertex, goalCost float64) []*Edge {
	type scored struct {
		edge *Edge
		dist float64
	}
	var candidates []scored
	for _, x := range samples {
		if x == sourceVertex {
			continue
		}
		edge := &Edge{Start: sourceVertex, End: x, CoverageAllowed: true}
		distance := edge.ApproxCost(ctx)
		// x hasn't been connected yet, so its own Coverage is meaningless;
		// use the parent's coverage as an admissible stand-in for x's h,
		// same as the teacher's "probably don't know ours yet" heuristic.
		hForX := sourceVertex.Coverage.ApproxToGo(*x.State, ctx.MaxSpeed) * ctx.TimePenalty
		if !(sourceVertex.GetCurrentCost()+distance+hForX < goalCost) {
			continue // can't contribute to a better solution than goalCost
		}
		candidates = append(candidates, scored{edge, distance})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > ctx.KNearest {
		candidates = candidates[:ctx.KNearest]
	}
	closest := make([]*Edge, 0, ctx.KNearest+1)
	for _, c := range candidates {
		c.edge.End.ParentEdge = c.edge
		closest = append(closest, c.edge)
	}
	if nearest, ok := sourceVertex.Coverage.NearestUncoveredState(*sourceVertex.State); ok {
		endVertex := &Vertex{State: &nearest, Coverage: sourceVertex.Coverage}
		edge := &Edge{Start: sourceVertex, End: endVertex, CoverageAllowed: true}
		endVertex.ParentEdge = edge
		closest = append(closest, edge)
	}
	return closest
}

//endregion

//region TracePlan

// TracePlan walks the parent-edge chain back from v to the search root
// and assembles the resulting common.Plan in forward order.
func TracePlan(ctx *Context, start common.State, v *Vertex) *common.Plan {
	if v == nil {
		return nil
	}
	if v.ParentEdge == nil {
		logger.Error("nil parent edge tracing plan")
		return nil
	}

	var branch []*Edge
	for cur := v; cur.ParentEdge.Start != cur; cur = cur.ParentEdge.Start {
		branch = append(branch, cur.ParentEdge)
	}
	for i, j := 0, len(branch)-1; i < j; i, j = i+1, j-1 {
		branch[i], branch[j] = branch[j], branch[i]
	}

	p := new(common.Plan)
	p.Start = start
	for _, e := range branch {
		p.AppendPlan(GetPlan(ctx, e))
		p.AppendState(e.End.State)
	}
	return p
}

//endregion

// ShowSamples renders a grid dump annotated with sampled states, the
// search tree's vertices, and start, for debug visualization.
func ShowSamples(dump string, width, height int, nodes []*Vertex, allSamples []*common.State, start *common.State) string {
	bytes := []byte(dump)
	var rows [][]byte
	for i := height - 1; i >= 0; i-- {
		rows = append(rows, bytes[1+(i*(width+1)):1+(i+1)*(width+1)])
	}
	mark := func(x, y float64, c byte) {
		xi, yi := int(x), int(y)
		if yi < 0 || yi >= len(rows) || xi < 0 || xi >= len(rows[yi]) {
			return
		}
		rows[yi][xi] = c
	}
	for _, s := range allSamples {
		mark(s.X, s.Y, '.')
	}
	for _, n := range nodes {
		mark(n.State.X, n.State.Y, 'o')
	}
	mark(start.X, start.Y, '@')
	return string(bytes)
}

// VerifyBranch walks the parent chain from vertex back to start,
// checking that no edge's time delta (scaled by TimePenalty) exceeds its
// cost delta. Logs an error on failure;
// intended for use in tests, not the hot path.
func VerifyBranch(ctx *Context, start common.State, vertex *Vertex) {
	if vertex.ParentEdge == nil {
		logger.Error(fmt.Sprintf("vertex at %s had nil parent", vertex.String()))
		return
	}
	parent := vertex.ParentEdge.Start
	if parent == vertex {
		if *vertex.State == start {
			return
		}
		logger.Error("detected a cycle verifying the tree")
		return
	}
	timeDiff := vertex.State.Time - parent.State.Time
	costDiff := vertex.GetCurrentCost() - parent.GetCurrentCost()
	if timeDiff*ctx.TimePenalty-costDiff > 1e-8 {
		logger.Error("time difference cost exceeds cost difference")
	}
	VerifyBranch(ctx, start, parent)
}
