package planner

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/ribbon"
	"github.com/afb2001/CCOM_planner/search"
	"go.uber.org/zap"
)

// defaultInitialSamples is the fallback sample count used when Config doesn't
// specify one.
const defaultInitialSamples = 10

// AStarPlanner runs the anytime sample-graph A* search described by
// Plan. It's stateful across a single Plan call (sample pool, best
// vertex found so far) but holds nothing between calls.
type AStarPlanner struct {
	logger *zap.Logger

	samples        []*search.Vertex
	bestVertex     *search.Vertex
	expandedCount  int
	iterationCount int
	startTime      float64
}

// New constructs an AStarPlanner. A nil logger is replaced with a no-op.
func New(logger *zap.Logger) *AStarPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	search.SetLogger(logger)
	return &AStarPlanner{logger: logger}
}

// Plan runs the anytime search from start, covering ribbons, for up to
// timeRemaining seconds (measured by config.Now), warm-started from
// previous. It returns nil if no feasible plan was found.
func (p *AStarPlanner) Plan(config Config, ribbons ribbon.Manager, start common.State, previous *DubinsPlan, timeRemaining float64) *DubinsPlan {
	ctx := config.searchContext()
	ctx.StartStateTime = start.Time
	endTime := ctx.Now() + timeRemaining
	ribbons.ChangeHeuristicIfTooManyRibbons()

	p.samples = nil
	p.bestVertex = nil
	p.expandedCount = 0
	p.iterationCount = 0
	p.startTime = start.Time

	initial := config.InitialSamples
	if initial <= 0 {
		initial = defaultInitialSamples
	}
	magnitude := ctx.MaxSpeed * (common.TimeHorizon + 1)
	bounds := search.Bounds{
		MinX: start.X - magnitude, MaxX: start.X + magnitude,
		MinY: start.Y - magnitude, MaxY: start.Y + magnitude,
	}

	startV := &search.Vertex{State: &start, Coverage: ribbons}
	startV.State.Speed = ctx.MaxSpeed
	startV.MakeRoot()
	startV.HValue(ctx)

	ribbonSamples := ribbons.FindStatesOnRibbonsOnCircle(start, ctx.CoverageTurningRadius*2+1)
	otherRibbonSamples := ribbons.FindNearStatesOnRibbons(start, ctx.CoverageTurningRadius)

	lastPlanEnd := p.collisionCheckPreviousPlan(ctx, startV, previous)

	qV := &search.VertexQueue{Cost: search.VertexCost(ctx)}
	for ctx.Now() < endTime {
		if p.bestVertex != nil && p.bestVertex.FValue(ctx) <= startV.FValue(ctx) {
			p.logger.Debug("found best possible plan, assuming heuristic admissibility")
			break
		}
		qV.Nodes = nil
		heap.Push(qV, startV)
		if lastPlanEnd != startV {
			heap.Push(qV, lastPlanEnd)
		}
		p.expandToCoverSpecificSamples(ctx, qV, startV, ribbonSamples)
		p.expandToCoverSpecificSamples(ctx, qV, startV, otherRibbonSamples)
		p.addSamples(ctx, bounds, startV, previous, initial)

		v := p.aStar(ctx, qV, endTime)
		if p.bestVertex == nil || (v != nil && v.FValue(ctx) < p.bestVertex.FValue(ctx)) {
			p.bestVertex = v
		}
		p.iterationCount++
	}

	p.logger.Info("planning iteration complete",
		zap.Int("samples", len(p.samples)),
		zap.Int("expanded", p.expandedCount),
		zap.Int("iterations", p.iterationCount))

	if p.bestVertex == nil {
		p.logger.Warn("failed to find a plan")
		return nil
	}
	return p.tracePlan(ctx, start, p.bestVertex)
}

// aStar pops vertices off qV until one satisfies the goal condition (all
// ribbons covered, or the time horizon is reached) or the deadline
// passes, expanding every non-goal vertex it pops along the way.
func (p *AStarPlanner) aStar(ctx *search.Context, qV *search.VertexQueue, endTime float64) *search.Vertex {
	if qV.Len() == 0 {
		return nil
	}
	vertex := heap.Pop(qV).(*search.Vertex)
	for ctx.Now() < endTime {
		if p.goalCondition(ctx, vertex) {
			return vertex
		}
		p.expand(ctx, qV, vertex)
		if qV.Len() == 0 {
			return nil
		}
		vertex = heap.Pop(qV).(*search.Vertex)
	}
	return nil
}

func (p *AStarPlanner) goalCondition(ctx *search.Context, v *search.Vertex) bool {
	return v.Coverage.Done() || v.State.Time > common.TimeHorizon+p.startTime
}

// expand connects vertex to its K nearest samples (plus the
// nearest-uncovered-point fallback), costing and pushing each result.
// Samples that are already connected to vertex are not filtered out.
func (p *AStarPlanner) expand(ctx *search.Context, qV *search.VertexQueue, vertex *search.Vertex) {
	p.expandedCount++
	for _, e := range search.GetKClosestVertices(ctx, vertex, p.samples, p.bestCost(ctx)) {
		if e == nil {
			continue
		}
		e.UpdateTrueCost(ctx)
		heap.Push(qV, e.End)
	}
}

func (p *AStarPlanner) bestCost(ctx *search.Context) float64 {
	if p.bestVertex == nil {
		return math.MaxFloat64
	}
	return p.bestVertex.FValue(ctx)
}

// expandToCoverSpecificSamples connects root directly to every sample in
// samples at the coverage turning radius, per AStarPlanner's manual
// expansion of ribbon-adjacent states so the vehicle doesn't have to
// stumble onto them via random sampling.
func (p *AStarPlanner) expandToCoverSpecificSamples(ctx *search.Context, qV *search.VertexQueue, root *search.Vertex, samples common.Path) {
	if ctx.CoverageTurningRadius <= 0 {
		return
	}
	for i := range samples {
		s := samples[i]
		s.Speed = ctx.MaxSpeed
		v := &search.Vertex{State: &s}
		e := &search.Edge{Start: root, End: v, CoverageAllowed: true}
		v.ParentEdge = e
		e.UpdateTrueCost(ctx)
		heap.Push(qV, v)
	}
}

// addSamples grows the sample pool: initialCount new random states on
// the first call, or initialCount more again (linear, not exponential
// growth) on later anytime iterations. It also mixes in the warm-start
// previous plan's samples once, since they're often near-optimal already.
func (p *AStarPlanner) addSamples(ctx *search.Context, bounds search.Bounds, startV *search.Vertex, previous *DubinsPlan, initialCount int) {
	if len(p.samples) == 0 && !previous.Empty() {
		for _, s := range previous.HalfSecondSamples() {
			state := s
			p.samples = append(p.samples, &search.Vertex{State: &state})
		}
	}
	existing := make(common.Path, 0, len(p.samples))
	for _, v := range p.samples {
		existing = append(existing, *v.State)
	}
	for m := 0; m < initialCount; m++ {
		state := search.BoundedBiasedRandomState(ctx, bounds, existing, startV.State, math.MaxFloat64)
		p.samples = append(p.samples, &search.Vertex{State: state})
	}
}

// collisionCheckPreviousPlan replays previous, half-second sample by
// half-second sample, as a chain of edges off startV, stopping (and
// falling back to startV) the first time an edge turns out infeasible --
// e.g. a dynamic obstacle has since moved into what used to be clear
// water.
func (p *AStarPlanner) collisionCheckPreviousPlan(ctx *search.Context, startV *search.Vertex, previous *DubinsPlan) *search.Vertex {
	if previous.Empty() {
		return startV
	}
	lastPlanEnd := startV
	for _, s := range previous.HalfSecondSamples() {
		state := s
		v := &search.Vertex{State: &state}
		e := &search.Edge{Start: lastPlanEnd, End: v, CoverageAllowed: true}
		v.ParentEdge = e
		e.UpdateTrueCost(ctx)
		if e.TrueCost() >= math.MaxFloat64 {
			return startV
		}
		lastPlanEnd = v
	}
	return lastPlanEnd
}

// tracePlan converts the winning vertex's parent-edge chain into a dense
// DubinsPlan, logging the traced tree at debug level the way the
// teacher's TracePlan logged it in verbose mode.
func (p *AStarPlanner) tracePlan(ctx *search.Context, start common.State, v *search.Vertex) *DubinsPlan {
	plan := search.TracePlan(ctx, start, v)
	if plan == nil {
		return nil
	}
	out := &DubinsPlan{States: make([]common.State, len(plan.States))}
	for i, s := range plan.States {
		out.States[i] = *s
	}
	p.logger.Debug(fmt.Sprintf("traced plan with %d states", len(out.States)))
	return out
}
