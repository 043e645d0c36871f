// Package visualize renders the planner's trajectory and ribbon coverage
// to a self-contained HTML chart, a best-effort debugging aid with no
// bearing on planning itself -- every method here swallows its own
// render errors into a logged warning rather than propagating them.
package visualize

import (
	"fmt"
	"os"

	"github.com/afb2001/CCOM_planner/planner"
	"github.com/afb2001/CCOM_planner/ribbon"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// Sink writes visualizations to a single HTML file, overwritten on every
// call. Disabled sinks (Enabled false) are a no-op, mirroring the
// teacher's DebugVis/DebugToFile flags.
type Sink struct {
	path    string
	enabled bool
	logger  *zap.Logger
}

// NewSink constructs a Sink. A nil logger is replaced with a no-op.
func NewSink(path string, enabled bool, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{path: path, enabled: enabled, logger: logger}
}

// DisplayTrajectory renders the chosen plan's (x, y) track as a line
// series, and each ribbon held by the manager as its own line series
// drawn end to end, into one page. Covered and uncovered parts of a
// ribbon are not distinguished.
func (s *Sink) DisplayTrajectory(plan *planner.DubinsPlan, ribbons ribbon.Manager) {
	if !s.enabled {
		return
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Planned Trajectory", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Planned Trajectory"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (m)"}),
	)
	if plan != nil {
		var data []opts.LineData
		for _, st := range plan.States {
			data = append(data, opts.LineData{Value: []interface{}{st.X, st.Y}})
		}
		line.AddSeries("trajectory", data)
	}
	for i := range ribbons.Ribbons {
		r := &ribbons.Ribbons[i]
		line.AddSeries(fmt.Sprintf("ribbon %d", i), []opts.LineData{
			{Value: []interface{}{r.X1, r.Y1}},
			{Value: []interface{}{r.X2, r.Y2}},
		})
	}

	page := components.NewPage()
	page.AddCharts(line)
	s.render(page)
}

func (s *Sink) render(page *components.Page) {
	f, err := os.Create(s.path)
	if err != nil {
		s.logger.Warn("could not open visualization file", zap.Error(err))
		return
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		s.logger.Warn("could not render visualization", zap.Error(err))
	}
}
