// Package search builds and searches the Dubins-connected sample graph:
// Vertex and Edge wrap search/common states with cached costs, Context
// carries the per-iteration configuration and collaborators that the
// teacher's version kept in package-level globals, and the rest of the
// package provides the A* plumbing (queues, Dubins integration, state
// sampling, plan tracing) that planner.AStarPlanner drives.
package search

import (
	"github.com/afb2001/CCOM_planner/mapping"
	"github.com/afb2001/CCOM_planner/obstacle"
)

// Context holds everything a planning iteration needs that used to live
// in globals.go: the teacher kept MaxSpeed, MaxTurningRadius, Start,
// Grid, Obst and Solver as package-level vars set once via InitGlobals.
// That's incompatible with running iterations concurrently with
// independent configuration snapshots, so here it's an explicit value
// threaded through every Vertex/Edge method instead.
type Context struct {
	MaxSpeed              float64
	TurningRadius         float64
	CoverageTurningRadius float64
	DubinsInc             float64
	CollisionPenalty      float64
	CoveragePenalty       float64
	TimePenalty           float64

	// KNearest bounds how many candidate edges GetKClosestVertices builds
	// per expansion, plus one reserved for the nearest uncovered point.
	KNearest int

	Obstacles *obstacle.Manager
	Map       mapping.ObstacleField

	// Now returns the current time in seconds; overridden in tests with a
	// plain deterministic function so A*'s anytime deadline is deterministic.
	Now func() float64

	// StartStateTime is the root vertex's state.Time for this planning
	// iteration -- the zero point the per-edge length budget
	// (maxSpeed * (TimeHorizon - (v.state.time - StartStateTime))) is
	// measured from.
	StartStateTime float64
}

// radiusFor returns the turning radius to use for an edge, depending on
// whether it's allowed to cover ribbons while traversing (coverage legs
// fly a tighter radius than transit legs, per the ribbon-coverage design).
func (c *Context) radiusFor(coverageAllowed bool) float64 {
	if coverageAllowed {
		return c.CoverageTurningRadius
	}
	return c.TurningRadius
}
