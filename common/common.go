package common

import (
	"fmt"
	"math"
)

const (
	planDistanceDensity float64 = 1
	planTimeDensity     float64 = 1
	// TimeHorizon bounds how far into the future a single plan segment is
	// allowed to reach before AppendState stops extending it.
	TimeHorizon       float64 = 30
	coverageThreshold float64 = 3
	// colocationTolerance is how close two states' (x, y) must be to count
	// as "the same place" for IsCoLocated -- exact float equality is too
	// strict once a state has been through a Dubins sample and back.
	colocationTolerance float64 = 1e-6
)

//region State

// State represents a single pose of the vehicle: position, heading, speed,
// and the time at which it holds. Heading is in [0, 2*pi).
type State struct {
	X, Y, Heading, Speed, Time float64
	CollisionProbability       float64
}

// TimeUntil returns the time in seconds until state other.
func (s *State) TimeUntil(other *State) float64 {
	return other.Time - s.Time
}

// DistanceTo returns the Euclidean distance in two dimensions (x, y).
func (s *State) DistanceTo(other *State) float64 {
	return math.Sqrt(math.Pow(s.X-other.X, 2) + math.Pow(s.Y-other.Y, 2))
}

func (s *State) HeadingTo(other *State) float64 {
	dx := other.X - s.X
	dy := other.Y - s.Y
	h := math.Atan2(dy, dx)
	if h < 0 {
		return h + (2 * math.Pi)
	}
	return h
}

// HeadingDifference returns the signed smallest-angle difference
// (other.Heading - s.Heading) folded into (-pi, pi].
func (s *State) HeadingDifference(other *State) float64 {
	d := other.Heading - s.Heading
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// Collides is true iff other is within 1.5m in the x and y directions at
// the same time.
func (s *State) Collides(other *State) bool {
	return s.Time == other.Time &&
		(math.Abs(s.X-other.X) < 1.5) &&
		(math.Abs(s.Y-other.Y) < 1.5)
}

// IsSamePosition tests whether the states have the same (x, y).
func (s *State) IsSamePosition(other *State) bool {
	return s.X == other.X && s.Y == other.Y
}

// IsCoLocated is the "did the controller actually get here" check used by
// the planning loop to decide whether a published plan's committed start
// state matches the state the plan expected at that time.
func (s *State) IsCoLocated(other *State) bool {
	return math.Abs(s.X-other.X) <= colocationTolerance &&
		math.Abs(s.Y-other.Y) <= colocationTolerance
}

// ToArrayPointer converts this state to a 3D vector for Dubins functions.
func (s *State) ToArrayPointer() *[3]float64 {
	return &[3]float64{s.X, s.Y, s.Heading}
}

// String creates a string representation of the state. Angle is turned
// back into heading.
func (s *State) String() string {
	return fmt.Sprintf("%f %f %f %f %f", s.X, s.Y, (-1*s.Heading)+math.Pi/2, s.Speed, s.Time)
}

// Project projects a state to a specified absolute time assuming constant
// speed and heading. Creates a new state. Meant to be used with future
// times but should work either way.
func (s *State) Project(time float64) *State {
	deltaT := time - s.Time
	magnitude := deltaT * s.Speed
	deltaX := math.Cos(s.Heading) * magnitude
	deltaY := math.Sin(s.Heading) * magnitude
	return &State{X: s.X + deltaX, Y: s.Y + deltaY, Heading: s.Heading, Speed: s.Speed, Time: time}
}

// Push advances this state by dt seconds of straight-line motion at its
// current speed and heading, returning the reached state.
func (s *State) Push(dt float64) *State {
	return s.Project(s.Time + dt)
}

// PushHeading moves the state along the given heading for the given
// distance. Mutates the current state. Written for ray-casting during
// map distance-to-blocked queries.
func (s *State) PushHeading(heading float64, distance float64) {
	dx := distance * math.Cos(heading)
	dy := distance * math.Sin(heading)
	s.X += dx
	s.Y += dy
}

//endregion

//region Path

// Path is an ordered sequence of states, used both as a generic sample
// buffer and (in the ribbon package) as a list of ribbon endpoints to
// cover.
type Path []State

// Without removes the given state from the Path. Does not modify the
// original Path.
func (p Path) Without(s State) *Path {
	b := Path{}
	for _, x := range p {
		if s != x {
			b = append(b, x)
		}
	}
	return &b
}

func (p Path) MaxDistanceFrom(s State) (max float64) {
	for _, x := range p {
		if d := s.DistanceTo(&x); d > max {
			max = d
		}
	}
	return
}

func (p Path) NewlyCovered(s State) (covered Path) {
	for _, x := range p {
		if s.DistanceTo(&x) < coverageThreshold {
			covered = append(covered, x)
		}
	}
	return
}

func (p Path) NewlyCoveredArray(q [3]float64) (covered Path) {
	s := State{X: q[0], Y: q[1]}
	return p.NewlyCovered(s)
}

// GetClosest returns the closest point in the path to s. Panics on an
// empty path; callers are expected to check len(p) > 0 first.
func (p Path) GetClosest(s State) State {
	closest := p[0]
	best := s.DistanceTo(&closest)
	for _, x := range p[1:] {
		if d := s.DistanceTo(&x); d < best {
			best, closest = d, x
		}
	}
	return closest
}

//endregion

//region Plan

// Plan is a dense sequence of sampled states along a trajectory, used as
// the low-level output of sampling a Dubins path. The higher-level
// edge-sequence plan the planner returns to callers is planner.DubinsPlan.
type Plan struct {
	Start  State
	States []*State
}

func (p *Plan) String() string {
	s := fmt.Sprintf("plan %d", len(p.States))
	for _, state := range p.States {
		s += "\n" + state.String()
	}
	return s
}

// AppendState appends a state to the plan when either:
//  1. The plan is empty
//  2. The plan's last state is within the time horizon of Start and there
//     is a substantial time gap between the last state and this one
func (p *Plan) AppendState(s *State) {
	if len(p.States) == 0 ||
		(p.Start.TimeUntil(p.States[len(p.States)-1]) < TimeHorizon &&
			p.States[len(p.States)-1].TimeUntil(s) > planTimeDensity) {
		p.States = append(p.States, s)
	}
}

// AppendPlan concatenates two plans.
func (p *Plan) AppendPlan(other *Plan) {
	if other == nil {
		return
	}
	for _, s := range other.States {
		p.AppendState(s)
	}
}

//endregion
