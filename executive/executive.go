// Package executive drives the planning loop: it owns the ribbon
// coverage state, the dynamic obstacle predictions, and the current map,
// and repeatedly calls into planner.AStarPlanner on a fixed cadence,
// publishing each new plan to a TrajectoryPublisher. Adapted from the
// teacher's rhrsaStar-driving Executive, generalized to the
// ribbon/obstacle/mapping packages this module builds on.
package executive

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/mapping"
	"github.com/afb2001/CCOM_planner/obstacle"
	"github.com/afb2001/CCOM_planner/planner"
	"github.com/afb2001/CCOM_planner/ribbon"
	"github.com/afb2001/CCOM_planner/visualize"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// plannerState is the Executive's running state machine: Inactive until
// startPlanner, Running for the life of the planning loop, Cancelled
// briefly while the loop notices and winds down back to Inactive.
type plannerState int

const (
	stateInactive plannerState = iota
	stateRunning
	stateCancelled
)

// PlanningPeriod is how long planLoop budgets for each iteration of the
// anytime search before it must publish whatever it has.
const PlanningPeriod = 2 * time.Second

const (
	// reusePlanEnabled controls whether each planning iteration warm-starts
	// from the previous plan (trimmed to a suffix) or discards it.
	reusePlanEnabled = true
	// radiusShrinkEnabled toggles the experimental turning-radius-shrink
	// behavior (disabled by default -- see the Design Notes on this).
	radiusShrinkEnabled = false
	// radiusShrinkAmount is how much both turning radii are decremented by
	// per iteration while radiusShrinkEnabled, tracked cumulatively so a
	// controller divergence can roll the whole experiment back.
	radiusShrinkAmount = 0.5
	// coverageHeadingRateMax is the heading-rate-of-change threshold
	// (radians per second) above which UpdateCovered treats the reported
	// pose as mid-turn and skips marking coverage, since position during a
	// tight turn is a poor estimate of where the vehicle actually swept.
	coverageHeadingRateMax = 1.0
)

// Executive owns all mutable planning state and coordinates the
// background planning loop. The zero value is not usable; construct with
// New.
type Executive struct {
	publisher TrajectoryPublisher
	logger    *zap.Logger
	clock     clock.Clock

	config planner.Config

	stateMu     sync.Mutex
	state       plannerState
	cancelFunc  context.CancelFunc
	loopDone    chan struct{}

	ribbonMu sync.Mutex
	ribbons  ribbon.Manager

	obstacles *obstacle.Manager

	mapMu   sync.Mutex
	theMap  mapping.Map
	newMap  mapping.Map

	lastStateMu   sync.Mutex
	lastState     common.State
	haveLastState bool

	// radiusShrink is the cumulative amount shaved off both turning radii
	// by the radius-shrink experiment, tracked so a controller divergence
	// can roll it back in one step.
	radiusShrink float64

	visualizer *visualize.Sink

	// loaders bounds the detached map-loading tasks started by RefreshMap
	// so Close can wait for them instead of abandoning them, unlike the
	// raw fire-and-forget thread in the original executive.
	loaders errgroup.Group
}

// New constructs an Executive around publisher. A nil logger is replaced
// with a no-op.
func New(publisher TrajectoryPublisher, logger *zap.Logger) *Executive {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Executive{
		publisher: publisher,
		logger:    logger,
		clock:     clock.New(),
		obstacles: obstacle.NewManager(),
		ribbons:   ribbon.NewManager(ribbon.TspPointRobotNoSplitKRibbons, 8, 2),
	}
	e.config.Now = publisher.Time
	return e
}

// SetClock overrides the clock used for the planning loop's pacing, for
// deterministic tests.
func (e *Executive) SetClock(c clock.Clock) {
	e.clock = c
}

// SetConfiguration updates the vehicle envelope and ribbon heuristic used
// by future planning iterations. An out-of-range heuristic id is logged
// and ignored, leaving the previously configured heuristic in place.
func (e *Executive) SetConfiguration(turningRadius, coverageTurningRadius, maxSpeed, lineWidth float64, k int, heuristic ribbon.Heuristic) {
	e.config.TurningRadius = turningRadius
	e.config.CoverageTurningRadius = coverageTurningRadius
	e.config.MaxSpeed = maxSpeed
	e.config.KNearest = k
	ribbon.SetWidth(lineWidth)

	if heuristic < ribbon.MaxDistance || heuristic > ribbon.TspDubinsNoSplitKRibbons {
		e.logger.Warn("unknown heuristic id, keeping previous heuristic", zap.Int("heuristic", int(heuristic)))
		return
	}

	e.ribbonMu.Lock()
	e.ribbons.SetHeuristic(heuristic)
	e.ribbonMu.Unlock()
}

// SetPlannerVisualization enables or disables best-effort HTML
// visualization of each published plan, written to path.
func (e *Executive) SetPlannerVisualization(enabled bool, path string) {
	if !enabled {
		e.visualizer = nil
		return
	}
	e.visualizer = visualize.NewSink(path, true, e.logger)
}

// UpdateCovered records the vehicle's current pose as the last known
// state and, if the observed heading rate |Δheading|/Δt is below
// coverageHeadingRateMax, marks ribbon coverage between the previous and
// new position. The gate is skipped on the very first call, when there
// is no previous pose to compute a rate from. Grounded in
// Executive::updateCovered.
func (e *Executive) UpdateCovered(x, y, heading, speed, t float64) {
	current := common.State{X: x, Y: y, Heading: heading, Speed: speed, Time: t}

	e.lastStateMu.Lock()
	last := e.lastState
	hadLastState := e.haveLastState
	e.lastState = current
	e.haveLastState = true
	e.lastStateMu.Unlock()

	if hadLastState {
		dt := t - last.Time
		if dt != 0 {
			headingRate := math.Abs(last.HeadingDifference(&current)) / math.Abs(dt)
			if headingRate > coverageHeadingRateMax {
				return
			}
		}
	} else {
		last = current
	}

	e.ribbonMu.Lock()
	defer e.ribbonMu.Unlock()
	e.ribbons.CoverBetween(last, current)
}

// AddRibbon adds a ribbon to cover between (x1, y1) and (x2, y2).
func (e *Executive) AddRibbon(x1, y1, x2, y2 float64) {
	e.ribbonMu.Lock()
	defer e.ribbonMu.Unlock()
	e.ribbons.Add(x1, y1, x2, y2)
}

// ClearRibbons discards every ribbon, covered or not.
func (e *Executive) ClearRibbons() {
	e.ribbonMu.Lock()
	defer e.ribbonMu.Unlock()
	e.ribbons.Clear()
}

// UpdateDynamicObstacle records a fresh sighting of a tracked obstacle,
// synthesizing a short-horizon prediction from its reported heading.
// Grounded in Executive::updateDynamicObstacle(mmsi, State) /
// inventDistributions.
func (e *Executive) UpdateDynamicObstacle(id uint32, state common.State) {
	push := func(dt float64) (float64, float64) {
		next := state.Push(dt)
		return next.X, next.Y
	}
	e.obstacles.Update(id, obstacle.InventDistributions(state.X, state.Y, state.Heading, state.Time, push))
}

// UpdateDynamicObstacleDistributions records a richer, caller-supplied
// prediction for a tracked obstacle, bypassing InventDistributions.
func (e *Executive) UpdateDynamicObstacleDistributions(id uint32, dists []obstacle.Distribution) {
	e.obstacles.Update(id, dists)
}

// RefreshMap loads a map file in the background and swaps it in for the
// next planning iteration to pick up. Errors are logged, not returned --
// a failed refresh just means the planner keeps using its current map.
// Grounded in Executive::refreshMap's fire-and-forget thread.
func (e *Executive) RefreshMap(path string, latitude, longitude float64) {
	e.loaders.Go(func() error {
		m, err := mapping.Load(path, latitude, longitude)
		if err != nil {
			e.logger.Warn("failed to load map, keeping previous map", zap.String("path", path), zap.Error(err))
			return nil
		}
		e.mapMu.Lock()
		e.newMap = m
		e.mapMu.Unlock()
		return nil
	})
}

// Close cancels any running planner and waits up to two seconds for
// outstanding map-loader tasks to finish, mirroring the C++ destructor's
// terminate()-plus-wait rather than abandoning detached threads.
func (e *Executive) Close() error {
	e.CancelPlanner()
	done := make(chan error, 1)
	go func() { done <- e.loaders.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		e.logger.Warn("map loader tasks did not finish within two seconds")
		return nil
	}
}

// PlannerIsRunning reports whether the planning loop is currently active.
func (e *Executive) PlannerIsRunning() bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.state == stateRunning
}

// StartPlanner starts the background planning loop. It is a no-op if the
// planner is already running.
func (e *Executive) StartPlanner() {
	e.stateMu.Lock()
	if e.state == stateRunning {
		e.stateMu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancelFunc = cancel
	e.state = stateRunning
	e.loopDone = make(chan struct{})
	e.stateMu.Unlock()

	go e.planLoop(ctx)
}

// CancelPlanner stops the background planning loop and waits (briefly)
// for it to wind down.
func (e *Executive) CancelPlanner() {
	e.stateMu.Lock()
	if e.state != stateRunning {
		e.stateMu.Unlock()
		return
	}
	e.state = stateCancelled
	cancel := e.cancelFunc
	done := e.loopDone
	e.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			e.logger.Warn("planner did not shut down within two seconds")
		}
	}
}

// planLoop is the 13-step anytime planning cycle: check for
// cancellation, check for completion, publish a visualization of current
// ribbons, pick up a refreshed map, estimate a start state, warm-start
// from the previous plan, plan, wait out the remaining budget, publish,
// and reconcile the controller's actual start state against the plan's
// expectation before looping. Grounded in Executive::planLoop.
func (e *Executive) planLoop(ctx context.Context) {
	defer func() {
		e.stateMu.Lock()
		e.state = stateInactive
		close(e.loopDone)
		e.stateMu.Unlock()
	}()
	session := uuid.New()
	logger := e.logger.With(zap.String("session", session.String()))
	logger.Info("planner started")

	planr := planner.New(logger)
	var plan *planner.DubinsPlan
	var startState common.State
	haveStartState := false

	for {
		select {
		case <-ctx.Done():
			logger.Info("planner cancelled")
			return
		default:
		}

		startTime := e.config.Now()

		e.ribbonMu.Lock()
		done := e.ribbons.Done()
		ribbonsCopy := e.ribbons.Clone()
		e.ribbonMu.Unlock()
		if done {
			logger.Info("finished covering ribbons")
			e.publisher.AllDone()
			return
		}
		e.publisher.DisplayTrajectory(plan, ribbonsCopy)
		if e.visualizer != nil {
			e.visualizer.DisplayTrajectory(plan, ribbonsCopy)
		}

		// Non-blocking: skip the map swap on contention rather than stall
		// this iteration's deadline.
		if e.mapMu.TryLock() {
			if e.newMap != nil {
				e.theMap = e.newMap
				e.newMap = nil
			}
			e.config.Map = obstacleFieldOf(e.theMap)
			e.mapMu.Unlock()
		}

		e.lastStateMu.Lock()
		last := e.lastState
		e.lastStateMu.Unlock()
		if !haveStartState {
			startState = *last.Push(startTime + PlanningPeriod.Seconds() - last.Time)
			haveStartState = true
		}

		if !reusePlanEnabled {
			plan = nil
		}
		if !plan.Empty() {
			plan.ChangeIntoSuffix(startState.Time)
		}

		if radiusShrinkEnabled {
			e.config.TurningRadius -= radiusShrinkAmount
			e.config.CoverageTurningRadius -= radiusShrinkAmount
			e.radiusShrink += radiusShrinkAmount
		}

		ribbonsCopy.CoverBetween(last, startState)

		e.config.Obstacles = e.obstacles.Snapshot()
		remaining := startTime + PlanningPeriod.Seconds() - e.config.Now()
		plan = e.planSafely(planr, logger, e.config, ribbonsCopy, startState, plan, remaining)

		elapsed := e.config.Now() - startTime
		if sleep := PlanningPeriod.Seconds() - elapsed; sleep > 0 {
			select {
			case <-ctx.Done():
				return
			case <-e.clock.After(time.Duration(sleep * float64(time.Second))):
			}
		}

		if plan.Empty() {
			logger.Warn("planner produced an empty plan")
			startState = common.State{Time: -1}
			haveStartState = false
			continue
		}

		actualStart := e.publisher.PublishPlan(plan)
		expected, _ := plan.Sample(actualStart.Time)
		if !actualStart.IsCoLocated(&expected) {
			logger.Warn("controller start state does not match planned state; discarding plan",
				zap.String("actual", fmt.Sprint(&actualStart)), zap.String("expected", fmt.Sprint(&expected)))
			plan = nil
			haveStartState = false
			if radiusShrinkEnabled {
				e.config.TurningRadius += e.radiusShrink
				e.config.CoverageTurningRadius += e.radiusShrink
				e.radiusShrink = 0
			}
		} else {
			startState = actualStart
		}
	}
}

// planSafely calls planr.Plan, converting a panic inside the planner into
// a logged error and a (non-blocking) transition to Cancelled before
// re-panicking, matching the "unknown exception types are rethrown after
// cancellation" error-handling policy.
func (e *Executive) planSafely(planr *planner.AStarPlanner, logger *zap.Logger, cfg planner.Config, ribbons ribbon.Manager, start common.State, previous *planner.DubinsPlan, remaining float64) (result *planner.DubinsPlan) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("planner panicked; cancelling", zap.Any("panic", r))
			e.stateMu.Lock()
			if e.state == stateRunning {
				e.state = stateCancelled
			}
			e.stateMu.Unlock()
			panic(r)
		}
	}()
	return planr.Plan(cfg, ribbons, start, previous, remaining)
}

func obstacleFieldOf(m mapping.Map) mapping.ObstacleField {
	if m == nil {
		return mapping.Empty{}
	}
	if f, ok := m.(mapping.ObstacleField); ok {
		return f
	}
	return mapping.Empty{}
}
