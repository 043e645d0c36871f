package executive

import (
	"sync"
	"testing"
	"time"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/planner"
	"github.com/afb2001/CCOM_planner/ribbon"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

type fakePublisher struct {
	mu        sync.Mutex
	now       float64
	published []*planner.DubinsPlan
	done      bool
}

// Time advances a little on every call, standing in for a real clock so
// the anytime search's deadline loop terminates instead of spinning
// forever against a frozen clock.
func (f *fakePublisher) Time() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now += 0.01
	return f.now
}

func (f *fakePublisher) PublishPlan(plan *planner.DubinsPlan) common.State {
	f.mu.Lock()
	f.published = append(f.published, plan)
	f.mu.Unlock()
	s, _ := plan.Sample(plan.States[0].Time)
	return s
}

func (f *fakePublisher) DisplayTrajectory(*planner.DubinsPlan, ribbon.Manager) {}

func (f *fakePublisher) AllDone() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = true
}

func TestNewExecutive_DefaultsToEmptyRibbons(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	assert.False(t, e.PlannerIsRunning())
	e.AddRibbon(0, 0, 10, 0)
	e.ribbonMu.Lock()
	assert.Len(t, e.ribbons.Ribbons, 1)
	e.ribbonMu.Unlock()
}

func TestClearRibbons(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.AddRibbon(0, 0, 10, 0)
	e.ClearRibbons()
	e.ribbonMu.Lock()
	assert.Empty(t, e.ribbons.Ribbons)
	e.ribbonMu.Unlock()
}

func TestUpdateCovered_FirstCallAlwaysCoversDespiteNoPriorHeading(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.AddRibbon(0, 0, 10, 0)

	e.UpdateCovered(0, 0, 0, 1, 0)

	e.ribbonMu.Lock()
	remaining := e.ribbons.TotalUncoveredLength()
	e.ribbonMu.Unlock()
	assert.Less(t, remaining, 10.0)
}

func TestUpdateCovered_HeadingRateGate_SkipsCoverageDuringTightTurn(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.AddRibbon(0, 0, 10, 0)

	e.UpdateCovered(0, 0, 0, 1, 0)
	e.ribbonMu.Lock()
	before := e.ribbons.TotalUncoveredLength()
	e.ribbonMu.Unlock()

	// A near-pi heading swing in 0.01s is a turn rate far above
	// coverageHeadingRateMax, so this call must not mark coverage even
	// though the position moved.
	e.UpdateCovered(5, 0, 3, 1, 0.01)

	e.ribbonMu.Lock()
	after := e.ribbons.TotalUncoveredLength()
	e.ribbonMu.Unlock()
	assert.Equal(t, before, after, "ribbon state after a tight-turn update must equal the state before it")
}

func TestUpdateCovered_BelowHeadingRateThreshold_StillCovers(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.AddRibbon(0, 0, 10, 0)

	e.UpdateCovered(0, 0, 0, 1, 0)
	e.ribbonMu.Lock()
	before := e.ribbons.TotalUncoveredLength()
	e.ribbonMu.Unlock()

	// No heading change at all over a full second: well under the gate.
	e.UpdateCovered(5, 0, 0, 1, 1)

	e.ribbonMu.Lock()
	after := e.ribbons.TotalUncoveredLength()
	e.ribbonMu.Unlock()
	assert.Less(t, after, before)
}

func TestSetConfiguration_UnknownHeuristicIsIgnored(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.SetConfiguration(1, 1, 2, 2, 3, ribbon.TspPointRobotNoSplitKRibbons)

	e.SetConfiguration(1, 1, 2, 2, 3, ribbon.Heuristic(99))

	e.ribbonMu.Lock()
	defer e.ribbonMu.Unlock()
	assert.Equal(t, ribbon.TspPointRobotNoSplitKRibbons, e.ribbons.Heuristic())
}

func TestUpdateDynamicObstacle_RecordsCollisionCost(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.UpdateDynamicObstacle(7, common.State{X: 5, Y: 5, Heading: 0, Speed: 1, Time: 0})
	assert.Greater(t, e.obstacles.CollisionCost(5, 5, 0), 0.0)
}

func TestStartAndCancelPlanner_ExitsCleanly(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.SetClock(clock.NewMock())
	e.SetConfiguration(4, 8, 2, 2, 3, ribbon.TspPointRobotNoSplitKRibbons)
	e.AddRibbon(0, 0, 10, 0)

	e.StartPlanner()
	assert.True(t, e.PlannerIsRunning())

	e.CancelPlanner()
	assert.False(t, e.PlannerIsRunning())
}

func TestStartPlanner_NoOpWhenAlreadyRunning(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.SetClock(clock.NewMock())
	e.AddRibbon(0, 0, 10, 0)
	e.StartPlanner()
	defer e.CancelPlanner()

	e.StartPlanner()
	assert.True(t, e.PlannerIsRunning(), "starting an already-running planner should be a no-op, not replace it")

	time.Sleep(10 * time.Millisecond)
}

func TestClose_CancelsPlannerAndWaitsForLoaders(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.SetClock(clock.NewMock())
	e.AddRibbon(0, 0, 10, 0)
	e.StartPlanner()
	assert.True(t, e.PlannerIsRunning())

	assert.NoError(t, e.Close())
	assert.False(t, e.PlannerIsRunning())
}

func TestRefreshMap_MissingFileIsLoggedNotPanicked(t *testing.T) {
	pub := &fakePublisher{}
	e := New(pub, nil)
	e.RefreshMap("/nonexistent/path/does-not-exist.map", 0, 0)
	assert.NoError(t, e.Close())
}
