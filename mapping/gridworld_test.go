package mapping

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGridWorld_RunLengthEncoding(t *testing.T) {
	// 4x2 map, resolution 1: row 1 (top) all free, row 0 (bottom) blocked
	// from column 2 onward.
	input := "map 1 4 2\n. 4\n. 2\n"
	g, err := parseGridWorld(bufio.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.False(t, g.IsBlocked(0, 1))
	assert.False(t, g.IsBlocked(1, 0))
	assert.True(t, g.IsBlocked(2, 0))
	assert.True(t, g.IsBlocked(3, 0))
}

func TestParseGridWorld_BadHeader(t *testing.T) {
	_, err := parseGridWorld(bufio.NewReader(strings.NewReader("not a header\n")))
	assert.Error(t, err)
}
