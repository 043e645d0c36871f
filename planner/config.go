// Package planner runs the anytime Dubins sample-graph A* search over a
// ribbon.Manager's uncovered coverage, grounded in the teacher's
// rhrsaStar package and the AStarPlanner this spec distills.
package planner

import (
	"github.com/afb2001/CCOM_planner/mapping"
	"github.com/afb2001/CCOM_planner/obstacle"
	"github.com/afb2001/CCOM_planner/search"
)

// Config is the per-iteration planner configuration: the vehicle
// envelope, the penalty weights that trade off time, coverage, and
// collision risk in edge cost, and the collaborators (obstacle
// predictions, static map) consulted while costing edges.
type Config struct {
	MaxSpeed              float64
	TurningRadius         float64
	CoverageTurningRadius float64
	DubinsInc             float64

	CollisionPenalty float64
	CoveragePenalty  float64
	TimePenalty      float64

	// KNearest bounds the branching factor of each expansion.
	KNearest int
	// InitialSamples is how many random states are added to the sample
	// pool on the first anytime iteration; later iterations add that many
	// more again (linear growth, not doubling -- see AStarPlanner.addSamples).
	InitialSamples int

	Obstacles *obstacle.Manager
	Map       mapping.ObstacleField

	// Now returns the current time in seconds. Defaults to a real clock;
	// tests override it to make the anytime deadline deterministic.
	Now func() float64
}

func (c Config) searchContext() *search.Context {
	now := c.Now
	if now == nil {
		now = defaultNow
	}
	obstacles := c.Obstacles
	if obstacles == nil {
		obstacles = obstacle.NewManager()
	}
	m := c.Map
	if m == nil {
		m = mapping.Empty{}
	}
	k := c.KNearest
	if k <= 0 {
		k = 3
	}
	return &search.Context{
		MaxSpeed:              c.MaxSpeed,
		TurningRadius:         c.TurningRadius,
		CoverageTurningRadius: c.CoverageTurningRadius,
		DubinsInc:             c.DubinsInc,
		CollisionPenalty:      c.CollisionPenalty,
		CoveragePenalty:       c.CoveragePenalty,
		TimePenalty:           c.TimePenalty,
		KNearest:              k,
		Obstacles:             obstacles,
		Map:                   m,
		Now:                   now,
	}
}
