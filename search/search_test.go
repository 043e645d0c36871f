package search

import (
	"math"
	"testing"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/mapping"
	"github.com/afb2001/CCOM_planner/obstacle"
	"github.com/afb2001/CCOM_planner/ribbon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *Context {
	return &Context{
		MaxSpeed:              2,
		TurningRadius:         1,
		CoverageTurningRadius: 1,
		DubinsInc:             0.5,
		CollisionPenalty:      100,
		CoveragePenalty:       1,
		TimePenalty:           1,
		KNearest:              3,
		Obstacles:             obstacle.NewManager(),
		Map:                   mapping.Empty{},
		Now:                   func() float64 { return 0 },
	}
}

func TestVertex_MakeRootAndFValue(t *testing.T) {
	ctx := testContext()
	start := common.State{X: 0, Y: 0}
	v := &Vertex{State: &start}
	v.MakeRoot()
	assert.Equal(t, 0.0, v.GetCurrentCost())
	assert.Equal(t, v, v.ParentEdge.Start)
	assert.Equal(t, v, v.ParentEdge.End)
	assert.GreaterOrEqual(t, v.FValue(ctx), 0.0)
}

func TestVertex_GetCurrentCostBeforeSetIsSentinel(t *testing.T) {
	v := &Vertex{State: &common.State{}}
	assert.Equal(t, 1.7976931348623157e+308, v.GetCurrentCost())
}

func TestVertex_HValueIsZeroWhenNothingToCover(t *testing.T) {
	ctx := testContext()
	v := &Vertex{State: &common.State{}, Coverage: ribbon.NewManager(ribbon.MaxDistance, 1, 3)}
	assert.Equal(t, 0.0, v.HValue(ctx))
}

func TestEdge_ApproxCost_ConnectsAdjacentStates(t *testing.T) {
	ctx := testContext()
	start := &Vertex{State: &common.State{X: 0, Y: 0, Heading: 0}}
	end := &Vertex{State: &common.State{X: 10, Y: 0, Heading: 0}}
	e := &Edge{Start: start, End: end}
	cost := e.ApproxCost(ctx)
	assert.Less(t, cost, 1.7976931348623157e+308)
	assert.NotNil(t, e.DPath)
}

func TestEdge_UpdateTrueCost_CoversRibbonAndAdvancesTime(t *testing.T) {
	ctx := testContext()
	mgr := ribbon.NewManager(ribbon.MaxDistance, 1, 3)
	mgr.Add(0, 0, 10, 0)

	start := &Vertex{State: &common.State{X: 0, Y: 0, Heading: 0, Time: 0}, Coverage: mgr}
	start.setCurrentCost(0)
	end := &Vertex{State: &common.State{X: 10, Y: 0, Heading: 0}}
	e := &Edge{Start: start, End: end, CoverageAllowed: true}

	cost := e.UpdateTrueCost(ctx)
	require.Less(t, cost, 1.7976931348623157e+308)
	assert.Greater(t, end.State.Time, start.State.Time)
	assert.Less(t, end.Coverage.TotalUncoveredLength(), mgr.TotalUncoveredLength())
	// start's own coverage must be untouched (copy-on-write).
	assert.Equal(t, 10.0, mgr.TotalUncoveredLength())
}

func TestEdge_UpdateTrueCost_MapBlockedEdgeIsInfeasible(t *testing.T) {
	ctx := testContext()
	ctx.Map = blockedMap{}
	start := &Vertex{State: &common.State{X: 0, Y: 0, Heading: 0, Time: 0}}
	start.setCurrentCost(0)
	end := &Vertex{State: &common.State{X: 10, Y: 0, Heading: 0}}
	e := &Edge{Start: start, End: end}

	cost := e.UpdateTrueCost(ctx)
	assert.Equal(t, math.MaxFloat64, cost)
}

type blockedMap struct{}

func (blockedMap) IsBlocked(x, y float64) bool            { return true }
func (blockedMap) DistanceToBlocked(x, y float64) float64 { return 0 }

func TestEdge_UpdateTrueCost_CollisionCostAboveFatalThresholdIsInfeasible(t *testing.T) {
	ctx := testContext()
	ctx.CollisionPenalty = 1
	mgr := obstacle.NewManager()
	// Stack several obstacles directly on the path so the accumulated
	// collision cost comfortably clears the fatal threshold regardless of
	// exact Dubins sample spacing.
	for id := uint32(1); id <= 5; id++ {
		mgr.Update(id, obstacle.InventDistributions(5, 0, 0, 0, func(dt float64) (float64, float64) { return 5, 0 }))
	}
	ctx.Obstacles = mgr

	start := &Vertex{State: &common.State{X: 0, Y: 0, Heading: 0, Time: 0}}
	start.setCurrentCost(0)
	end := &Vertex{State: &common.State{X: 10, Y: 0, Heading: 0}}
	e := &Edge{Start: start, End: end}

	cost := e.UpdateTrueCost(ctx)
	assert.Equal(t, math.MaxFloat64, cost)
}

func TestEdge_UpdateTrueCost_PathExceedingTimeHorizonBudgetIsInfeasible(t *testing.T) {
	ctx := testContext()
	ctx.StartStateTime = 0
	start := &Vertex{State: &common.State{X: 0, Y: 0, Heading: 0, Time: common.TimeHorizon + 1}}
	start.setCurrentCost(0)
	end := &Vertex{State: &common.State{X: 10, Y: 0, Heading: 0}}
	e := &Edge{Start: start, End: end}

	cost := e.UpdateTrueCost(ctx)
	assert.Equal(t, math.MaxFloat64, cost)
}

func TestEdge_UpdateTrueCost_InfeasiblePathIsMaxCost(t *testing.T) {
	ctx := testContext()
	start := &Vertex{State: &common.State{X: 0, Y: 0}}
	start.setCurrentCost(0)
	end := &Vertex{State: &common.State{X: 0, Y: 0}}
	e := &Edge{Start: start, End: end}
	e.trueCostSet = false
	// Zero-radius turning is the degenerate case the dubins package rejects.
	ctx.TurningRadius = 0
	cost := e.UpdateTrueCost(ctx)
	assert.Equal(t, math.MaxFloat64, cost)
	assert.Equal(t, cost, e.TrueCost())
}

func TestGetKClosestVertices_PrefersCheaperSamples(t *testing.T) {
	ctx := testContext()
	mgr := ribbon.NewManager(ribbon.MaxDistance, 1, 3)
	mgr.Add(0, 0, 20, 0)
	source := &Vertex{State: &common.State{X: 0, Y: 0, Heading: 0}, Coverage: mgr}
	source.setCurrentCost(0)

	near := &Vertex{State: &common.State{X: 1, Y: 0, Heading: 0}}
	far := &Vertex{State: &common.State{X: 19, Y: 0, Heading: 0}}

	edges := GetKClosestVertices(ctx, source, []*Vertex{near, far}, 1e18)
	require.NotEmpty(t, edges)
	found := false
	for _, e := range edges {
		if e.End == near {
			found = true
		}
	}
	assert.True(t, found, "the nearer sample should be among the connected candidates")
}

func TestGetKClosestVertices_ExcludesSourceItself(t *testing.T) {
	ctx := testContext()
	source := &Vertex{State: &common.State{X: 0, Y: 0}, Coverage: ribbon.NewManager(ribbon.MaxDistance, 1, 3)}
	source.setCurrentCost(0)
	edges := GetKClosestVertices(ctx, source, []*Vertex{source}, 1e18)
	for _, e := range edges {
		assert.NotEqual(t, source, e.End)
	}
}

func TestTracePlan_WalksBackToRoot(t *testing.T) {
	ctx := testContext()
	start := common.State{X: 0, Y: 0, Heading: 0}
	root := &Vertex{State: &start}
	root.MakeRoot()

	mid := &Vertex{State: &common.State{X: 5, Y: 0, Heading: 0}}
	e1 := &Edge{Start: root, End: mid, CoverageAllowed: false}
	e1.UpdateTrueCost(ctx)
	mid.ParentEdge = e1

	plan := TracePlan(ctx, start, mid)
	require.NotNil(t, plan)
	assert.Equal(t, start, plan.Start)
}

func TestVertexQueue_PopsLowestFValueFirst(t *testing.T) {
	ctx := testContext()
	a := &Vertex{State: &common.State{}}
	a.setCurrentCost(5)
	b := &Vertex{State: &common.State{}}
	b.setCurrentCost(1)

	q := makeVertexQueue([]*Vertex{a, b}, VertexCost(ctx))
	assert.Equal(t, b, q.Nodes[0])
}

func TestBoundedBiasedRandomState_StaysWithinBounds(t *testing.T) {
	ctx := testContext()
	bounds := Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	start := &common.State{X: 0, Y: 0}
	for i := 0; i < 20; i++ {
		s := BoundedBiasedRandomState(ctx, bounds, nil, start, 10)
		assert.GreaterOrEqual(t, s.X, bounds.MinX)
		assert.LessOrEqual(t, s.X, bounds.MaxX)
		assert.GreaterOrEqual(t, s.Y, bounds.MinY)
		assert.LessOrEqual(t, s.Y, bounds.MaxY)
	}
}
