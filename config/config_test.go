package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
turningRadius: 4
coverageTurningRadius: 6
maxSpeed: 3
lineWidth: 1.5
k: 5
heuristic: 3
visualize: true
visualizationFilePath: /tmp/plan.html
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, c.TurningRadius)
	assert.Equal(t, 6.0, c.CoverageTurningRadius)
	assert.Equal(t, 5, c.KNearest)
	assert.True(t, c.Visualize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadHeuristic(t *testing.T) {
	c := Default()
	c.Heuristic = 99
	assert.Error(t, c.Validate())
}

func TestValidate_RejectsNonPositiveTurningRadius(t *testing.T) {
	c := Default()
	c.TurningRadius = 0
	assert.Error(t, c.Validate())
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
