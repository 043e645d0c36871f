package visualize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/planner"
	"github.com/afb2001/CCOM_planner/ribbon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Disabled_WritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.html")
	s := NewSink(path, false, nil)
	s.DisplayTrajectory(&planner.DubinsPlan{}, ribbon.Manager{})
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSink_Enabled_WritesHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.html")
	s := NewSink(path, true, nil)
	plan := &planner.DubinsPlan{States: []common.State{{X: 0, Y: 0}, {X: 5, Y: 5}}}
	mgr := ribbon.NewManager(ribbon.MaxDistance, 1, 3)
	mgr.Add(0, 0, 10, 0)

	s.DisplayTrajectory(plan, mgr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, string(data), "html")
}

func TestSink_Enabled_NilPlanDoesNotPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.html")
	s := NewSink(path, true, nil)
	assert.NotPanics(t, func() {
		s.DisplayTrajectory(nil, ribbon.Manager{})
	})
}
