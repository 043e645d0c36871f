package parse

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseState(t *testing.T) {
	s, err := ParseState("10 20 0 1.5 3.0")
	assert.NoError(t, err)
	assert.Equal(t, 10.0, s.X)
	assert.Equal(t, 20.0, s.Y)
	assert.Equal(t, 1.5, s.Speed)
	assert.Equal(t, 3.0, s.Time)
}

func TestParseState_BadInput(t *testing.T) {
	_, err := ParseState("not a state")
	assert.Error(t, err)
}

func TestParseRibbon(t *testing.T) {
	r, err := ParseRibbon("1 2 3 4")
	assert.NoError(t, err)
	assert.Equal(t, Ribbon{X1: 1, Y1: 2, X2: 3, Y2: 4}, r)
}

func TestParseDynamicObstacleReport(t *testing.T) {
	r, err := ParseDynamicObstacleReport("7 10 20 0 1.5 3.0")
	assert.NoError(t, err)
	assert.Equal(t, uint32(7), r.ID)
	assert.Equal(t, 10.0, r.State.X)
	assert.Equal(t, 20.0, r.State.Y)
}

func TestGetLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("first\nsecond\n"))
	assert.Equal(t, "first\n", GetLine(reader))
	assert.Equal(t, "second\n", GetLine(reader))
}
