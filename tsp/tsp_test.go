package tsp

import (
	"github.com/afb2001/CCOM_planner/common"
	"testing"
)

func TestSolver_Solve(t *testing.T) {
	t.Log("Testing greedy TSP solver")
	path := common.Path{{X: 1, Y: 0}, {X: 1, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 6}, {X: 9, Y: 6}}
	solver := NewSolver(path)
	if d := solver.Solve(0, 0, path); d != 15 {
		t.Errorf("Expected %f, got %f", float64(15), d)
	}
	if d := solver.Solve(1, 0, path); d != 14 {
		t.Errorf("Expected %f, got %f", float64(14), d)
	}
}
