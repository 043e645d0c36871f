package obstacle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_CollisionCost_UnknownObstacleIsZero(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0.0, m.CollisionCost(0, 0, 0))
}

func TestManager_CollisionCost_PeaksAtMean(t *testing.T) {
	m := NewManager()
	m.Update(1, []Distribution{{Mean: [2]float64{10, 10}, Covariance: [2][2]float64{{1, 0}, {0, 1}}, Time: 0}})

	atMean := m.CollisionCost(10, 10, 0)
	farAway := m.CollisionCost(1000, 1000, 0)
	assert.Greater(t, atMean, farAway)
}

func TestManager_CollisionCost_InterpolatesBetweenTimes(t *testing.T) {
	m := NewManager()
	m.Update(1, []Distribution{
		{Mean: [2]float64{0, 0}, Covariance: [2][2]float64{{1, 0}, {0, 1}}, Time: 0},
		{Mean: [2]float64{10, 0}, Covariance: [2][2]float64{{1, 0}, {0, 1}}, Time: 10},
	})
	atMidpoint := m.CollisionCost(5, 0, 5)
	offMidpoint := m.CollisionCost(5, 5, 5)
	assert.Greater(t, atMidpoint, offMidpoint)
}

func TestManager_RemoveDropsObstacle(t *testing.T) {
	m := NewManager()
	m.Update(1, []Distribution{{Mean: [2]float64{0, 0}, Covariance: [2][2]float64{{1, 0}, {0, 1}}, Time: 0}})
	m.Remove(1)
	assert.Equal(t, 0.0, m.CollisionCost(0, 0, 0))
}

func TestManager_Snapshot_IsIndependentOfLaterUpdates(t *testing.T) {
	m := NewManager()
	m.Update(1, []Distribution{{Mean: [2]float64{0, 0}, Covariance: [2][2]float64{{1, 0}, {0, 1}}, Time: 0}})
	snap := m.Snapshot()
	m.Remove(1)
	assert.Greater(t, snap.CollisionCost(0, 0, 0), 0.0)
	assert.Equal(t, 0.0, m.CollisionCost(0, 0, 0))
}

func TestInventDistributions_ProducesTwoTimeSteps(t *testing.T) {
	dists := InventDistributions(1, 2, 0, 5, func(dt float64) (float64, float64) { return 1 + dt, 2 })
	assert.Len(t, dists, 2)
	assert.Equal(t, 5.0, dists[0].Time)
	assert.Equal(t, 6.0, dists[1].Time)
	assert.Equal(t, 2.0, dists[1].Mean[0])
}
