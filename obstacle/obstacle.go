// Package obstacle tracks predicted dynamic-obstacle trajectories as
// timestamped Gaussian distributions and answers collision-cost queries
// against them.
package obstacle

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Distribution is a single predicted pose of a dynamic obstacle: a 2D
// Gaussian over position at a given time, plus the heading the obstacle
// was moving at when the distribution was recorded.
type Distribution struct {
	Mean       [2]float64
	Covariance [2][2]float64
	Heading    float64
	Time       float64
}

func (d Distribution) normal() *distmv.Normal {
	sigma := mat.NewSymDense(2, []float64{
		d.Covariance[0][0], d.Covariance[0][1],
		d.Covariance[1][0], d.Covariance[1][1],
	})
	normal, ok := distmv.NewNormal(d.Mean[:], sigma, nil)
	if !ok {
		// Covariance wasn't positive-definite; fall back to a unit
		// covariance so collision queries still return a finite value.
		sigma = mat.NewSymDense(2, []float64{1, 0, 0, 1})
		normal, _ = distmv.NewNormal(d.Mean[:], sigma, nil)
	}
	return normal
}

func interpolate(a, b Distribution, frac float64) Distribution {
	lerp := func(x, y float64) float64 { return x + (y-x)*frac }
	var out Distribution
	out.Mean[0] = lerp(a.Mean[0], b.Mean[0])
	out.Mean[1] = lerp(a.Mean[1], b.Mean[1])
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out.Covariance[i][j] = lerp(a.Covariance[i][j], b.Covariance[i][j])
		}
	}
	out.Heading = lerp(a.Heading, b.Heading)
	out.Time = lerp(a.Time, b.Time)
	return out
}

// Manager maps an opaque obstacle id (mmsi) to its ordered list of
// predicted distributions. Updates are atomic from the planner's point of
// view: Snapshot returns an immutable copy that a planning iteration can
// read without further locking.
type Manager struct {
	mu    sync.RWMutex
	byID  map[uint32][]Distribution
}

// NewManager constructs an empty DynamicObstaclesManager.
func NewManager() *Manager {
	return &Manager{byID: make(map[uint32][]Distribution)}
}

// Update replaces the distribution list for mmsi.
func (m *Manager) Update(mmsi uint32, dists []Distribution) {
	sorted := make([]Distribution, len(dists))
	copy(sorted, dists)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[mmsi] = sorted
}

// Remove drops mmsi from the manager.
func (m *Manager) Remove(mmsi uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, mmsi)
}

// Snapshot returns an immutable copy of the manager suitable for a single
// planning iteration to read without locking again.
func (m *Manager) Snapshot() *Manager {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := make(map[uint32][]Distribution, len(m.byID))
	for id, dists := range m.byID {
		cp := make([]Distribution, len(dists))
		copy(cp, dists)
		copied[id] = cp
	}
	return &Manager{byID: copied}
}

// CollisionCost interpolates between the two surrounding time slices for
// each known obstacle (or extrapolates from the nearest slice if t falls
// outside the obstacle's known range) and returns the sum of the
// resulting non-negative, finite probability-density-proportional costs.
// An obstacle absent from the snapshot contributes zero.
func (m *Manager) CollisionCost(x, y, t float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, dists := range m.byID {
		total += collisionCostOne(dists, x, y, t)
	}
	return total
}

func collisionCostOne(dists []Distribution, x, y, t float64) float64 {
	if len(dists) == 0 {
		return 0
	}
	var d Distribution
	switch {
	case t <= dists[0].Time:
		d = dists[0]
	case t >= dists[len(dists)-1].Time:
		d = dists[len(dists)-1]
	default:
		i := sort.Search(len(dists), func(i int) bool { return dists[i].Time >= t })
		before, after := dists[i-1], dists[i]
		frac := 0.0
		if after.Time > before.Time {
			frac = (t - before.Time) / (after.Time - before.Time)
		}
		d = interpolate(before, after, frac)
	}
	density := math.Exp(d.normal().LogProb([]float64{x, y}))
	if density < 0 || math.IsNaN(density) || math.IsInf(density, 0) {
		return 0
	}
	return density
}

// InventDistributions synthesizes two distributions (one at the current
// time, one one second later) with unit covariance from a single
// observed state. This is a deliberate placeholder -- see the Obstacle
// prediction design note -- callers with a richer obstacle-prediction
// source should build Distributions directly instead of going through
// this function.
func InventDistributions(x, y, heading, t float64, push func(dt float64) (x, y float64)) []Distribution {
	unit := [2][2]float64{{1, 0}, {0, 1}}
	x2, y2 := push(1)
	return []Distribution{
		{Mean: [2]float64{x, y}, Covariance: unit, Heading: heading, Time: t},
		{Mean: [2]float64{x2, y2}, Covariance: unit, Heading: heading, Time: t + 1},
	}
}
