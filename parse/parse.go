// Package parse reads the line-oriented wire protocol cmd/ccomplanner
// speaks on stdin: states, ribbons to cover, and dynamic obstacle
// reports. Adapted from the teacher's stdin parsing, generalized from a
// single "path to cover" to ribbon add/clear commands.
package parse

import (
	"bufio"
	"fmt"
	"math"

	"github.com/afb2001/CCOM_planner/common"
)

// GetLine reads a single newline-terminated line, discarding any error
// (an EOF on the final read still returns whatever was read).
func GetLine(reader *bufio.Reader) string {
	l, _ := reader.ReadString('\n')
	return l
}

// ParseState parses "x y heading speed time", converting heading from
// compass convention into the math-convention angle the rest of the
// planner uses.
func ParseState(line string) (common.State, error) {
	var x, y, heading, speed, t float64
	if _, err := fmt.Sscanf(line, "%f %f %f %f %f", &x, &y, &heading, &speed, &t); err != nil {
		return common.State{}, fmt.Errorf("parsing state %q: %w", line, err)
	}
	return common.State{X: x, Y: y, Heading: (heading * -1) + math.Pi/2, Speed: speed, Time: t}, nil
}

// Ribbon is a parsed "x1 y1 x2 y2" ribbon-endpoints line.
type Ribbon struct {
	X1, Y1, X2, Y2 float64
}

// ParseRibbon parses "x1 y1 x2 y2".
func ParseRibbon(line string) (Ribbon, error) {
	var r Ribbon
	if _, err := fmt.Sscanf(line, "%f %f %f %f", &r.X1, &r.Y1, &r.X2, &r.Y2); err != nil {
		return Ribbon{}, fmt.Errorf("parsing ribbon %q: %w", line, err)
	}
	return r, nil
}

// DynamicObstacleReport is a single "id x y heading speed time" contact
// report for a tracked dynamic obstacle.
type DynamicObstacleReport struct {
	ID    uint32
	State common.State
}

// ParseDynamicObstacleReport parses "id x y heading speed time".
func ParseDynamicObstacleReport(line string) (DynamicObstacleReport, error) {
	var id uint32
	var x, y, heading, speed, t float64
	if _, err := fmt.Sscanf(line, "%d %f %f %f %f %f", &id, &x, &y, &heading, &speed, &t); err != nil {
		return DynamicObstacleReport{}, fmt.Errorf("parsing dynamic obstacle report %q: %w", line, err)
	}
	return DynamicObstacleReport{
		ID:    id,
		State: common.State{X: x, Y: y, Heading: (heading * -1) + math.Pi/2, Speed: speed, Time: t},
	}, nil
}
