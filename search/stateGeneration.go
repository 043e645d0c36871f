package search

import (
	"math"
	"math/rand"

	"github.com/afb2001/CCOM_planner/common"
)

//region State generation

const (
	goalBias     = 0.05
	maxSpeedBias = 1.0
)

func chance(probability float64) bool {
	return rand.Float64() < probability
}

// RandomState creates a new State with uniformly random position and
// heading within the given bounds. Time and speed are left unset.
func RandomState(xMin, xMax, yMin, yMax float64) *common.State {
	s := new(common.State)
	s.X = rand.Float64()*(xMax-xMin) + xMin
	s.Y = rand.Float64()*(yMax-yMin) + yMin
	s.Heading = rand.Float64() * math.Pi * 2
	return s
}

// biasedRandomState samples RandomState, then snaps speed to max speed
// with probability maxSpeedBias.
func biasedRandomState(ctx *Context, xMin, xMax, yMin, yMax float64) *common.State {
	s := RandomState(xMin, xMax, yMin, yMax)
	s.Speed = ctx.MaxSpeed
	if !chance(maxSpeedBias) {
		s.Speed = rand.Float64() * ctx.MaxSpeed
	}
	return s
}

// Bounds describes the rectangular region samples may be drawn from. The
// planner centres it on the start state, extending
// MaxSpeed*(TimeHorizon+1) in each direction.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// BoundedBiasedRandomState samples a state within a distance of
// min(cost*maxSpeed, (TimeHorizon+1)*maxSpeed) from a point chosen either
// uniformly among a recent plan's states or at start, clamped to bounds,
// and with probability goalBias moves the sample onto the anchor point's
// position (keeping the sample's own heading and speed).
func BoundedBiasedRandomState(ctx *Context, bounds Bounds, path common.Path, start *common.State, cost float64) *common.State {
	distance := cost * ctx.MaxSpeed
	horizon := (common.TimeHorizon + 1) * ctx.MaxSpeed
	distance = math.Min(distance, horizon)
	var point *common.State
	l := int32(len(path))
	if i := rand.Int31n(l*2 + 1); i >= l {
		point = start
	} else {
		point = &path[i]
	}
	s := biasedRandomState(ctx,
		math.Max(bounds.MinX, point.X-distance),
		math.Min(bounds.MaxX, point.X+distance),
		math.Max(bounds.MinY, point.Y-distance),
		math.Min(bounds.MaxY, point.Y+distance))
	if chance(goalBias) {
		s.X, s.Y = point.X, point.Y
	}
	return s
}

//endregion
