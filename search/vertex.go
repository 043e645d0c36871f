package search

import (
	"fmt"
	"math"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/dubins"
	"github.com/afb2001/CCOM_planner/ribbon"
)

//region Vertex

// Vertex is a node in the search tree: a state, the coverage already
// accounted for on the path to it (a copy-on-write snapshot -- expanding
// a vertex clones Coverage before marking anything newly covered, so
// sibling branches never see each other's coverage), and cached costs.
type Vertex struct {
	State      *common.State
	Coverage   ribbon.Manager
	ParentEdge *Edge

	g    float64
	gSet bool
	h    float64
	hSet bool
}

// GetCurrentCost returns the cached true cost from the search root to v.
// It's set by Edge.UpdateTrueCost when v becomes some edge's End, except
// for the root vertex, which the caller must set directly.
func (v *Vertex) GetCurrentCost() float64 {
	if v.gSet {
		return v.g
	}
	logger.Error("using current cost before it's set")
	return math.MaxFloat64
}

// setCurrentCost is called by Edge.UpdateTrueCost.
func (v *Vertex) setCurrentCost(g float64) {
	v.g, v.gSet = g, true
}

// MakeRoot turns v into a search root: a self-loop parent edge (so
// TracePlan's walk back to the root terminates) and a zero current cost.
func (v *Vertex) MakeRoot() {
	v.ParentEdge = &Edge{Start: v, End: v}
	v.setCurrentCost(0)
}

// ApproxToGo returns the cached heuristic value, computing it first if
// necessary using v's own Coverage.
func (v *Vertex) ApproxToGo(ctx *Context) float64 {
	if !v.hSet {
		v.HValue(ctx)
	}
	return v.h
}

// HValue computes (and caches) the heuristic lower bound on remaining
// cost from v to full coverage, using v.Coverage.
func (v *Vertex) HValue(ctx *Context) float64 {
	v.h = v.Coverage.ApproxToGo(*v.State, ctx.MaxSpeed) * ctx.TimePenalty
	v.hSet = true
	return v.h
}

// FValue is f_hat = g_hat + h_hat, the anytime search priority.
func (v *Vertex) FValue(ctx *Context) float64 {
	return v.GetCurrentCost() + v.ApproxToGo(ctx)
}

// dubinsDistance returns the Dubins path length from v to other at the
// given turning radius, or math.MaxFloat64 if no path connects them.
func (v *Vertex) dubinsDistance(other *common.State, radius float64) float64 {
	path, err := shortestPath(v.State, other, radius)
	if err != dubins.EDUBOK {
		return math.MaxFloat64
	}
	return path.Length()
}

// String renders a debug-visualization-friendly summary of v.
func (v *Vertex) String() string {
	return fmt.Sprintf("%s g = %f h = %f", v.State.String(), v.g, v.h)
}

//endregion
