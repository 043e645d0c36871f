package planner

import (
	"testing"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/stretchr/testify/assert"
)

func TestDubinsPlan_EmptyPlan(t *testing.T) {
	var p *DubinsPlan
	assert.True(t, p.Empty())
	p = &DubinsPlan{}
	assert.True(t, p.Empty())
}

func TestDubinsPlan_SampleInterpolates(t *testing.T) {
	p := &DubinsPlan{States: []common.State{
		{X: 0, Y: 0, Time: 0},
		{X: 10, Y: 0, Time: 10},
	}}
	s, ok := p.Sample(5)
	assert.True(t, ok)
	assert.InDelta(t, 5, s.X, 1e-9)
}

func TestDubinsPlan_SampleClampsToEnds(t *testing.T) {
	p := &DubinsPlan{States: []common.State{
		{X: 0, Y: 0, Time: 0},
		{X: 10, Y: 0, Time: 10},
	}}
	before, _ := p.Sample(-5)
	assert.Equal(t, 0.0, before.X)
	after, _ := p.Sample(50)
	assert.Equal(t, 10.0, after.X)
}

func TestDubinsPlan_ChangeIntoSuffix(t *testing.T) {
	p := &DubinsPlan{States: []common.State{
		{X: 0, Y: 0, Time: 0},
		{X: 5, Y: 0, Time: 5},
		{X: 10, Y: 0, Time: 10},
	}}
	p.ChangeIntoSuffix(5)
	assert.Equal(t, 5.0, p.States[0].Time)
	assert.Len(t, p.States, 2)
}

func TestDubinsPlan_ChangeIntoSuffix_MidGapInterpolates(t *testing.T) {
	p := &DubinsPlan{States: []common.State{
		{X: 0, Y: 0, Time: 0},
		{X: 10, Y: 0, Time: 10},
	}}
	p.ChangeIntoSuffix(5)
	assert.InDelta(t, 5.0, p.States[0].Time, 1e-9)
	assert.InDelta(t, 5.0, p.States[0].X, 1e-9)
}

func TestDubinsPlan_HalfSecondSamples(t *testing.T) {
	p := &DubinsPlan{States: []common.State{
		{X: 0, Y: 0, Time: 0},
		{X: 2, Y: 0, Time: 2},
	}}
	samples := p.HalfSecondSamples()
	assert.Equal(t, 0.0, samples[0].Time)
	assert.Equal(t, 2.0, samples[len(samples)-1].Time)
	for i := 1; i < len(samples)-1; i++ {
		assert.InDelta(t, 0.5, samples[i].Time-samples[i-1].Time, 1e-9)
	}
}

func TestDubinsPlan_HalfSecondSamples_Empty(t *testing.T) {
	var p *DubinsPlan
	assert.Nil(t, p.HalfSecondSamples())
}
