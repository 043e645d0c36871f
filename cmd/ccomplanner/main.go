// Command ccomplanner runs the coverage planner as a standalone process,
// speaking a line-oriented protocol on stdin/stdout. Descended from the
// teacher's main.go prototype, generalized from one fixed Scanf sequence
// into a keyword-dispatched command loop that can add/clear ribbons,
// report dynamic obstacles, and start/stop the planner independently.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/afb2001/CCOM_planner/config"
	"github.com/afb2001/CCOM_planner/executive"
	"github.com/afb2001/CCOM_planner/parse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	var mapPath string
	var latitude, longitude float64
	var verbose bool

	root := &cobra.Command{
		Use:   "ccomplanner",
		Short: "Anytime Dubins-car coverage planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, mapPath, latitude, longitude, verbose)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file (uses built-in defaults if empty)")
	root.Flags().StringVar(&mapPath, "map", "", "path to a static map file (.map grid-world or GeoTIFF); loaded if set")
	root.Flags().Float64Var(&latitude, "latitude", 0, "map origin latitude, for GeoTIFF georeferencing")
	root.Flags().Float64Var(&longitude, "longitude", 0, "map origin longitude, for GeoTIFF georeferencing")
	root.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, mapPath string, latitude, longitude float64, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	pub := newStdioPublisher(os.Stdout, os.Stdin)
	exec := executive.New(pub, logger)
	defer exec.Close()
	exec.SetConfiguration(cfg.TurningRadius, cfg.CoverageTurningRadius, cfg.MaxSpeed, cfg.LineWidth, cfg.KNearest, cfg.RibbonHeuristic())
	exec.SetPlannerVisualization(cfg.Visualize, cfg.VisualizationFilePath)

	if mapPath != "" {
		exec.RefreshMap(mapPath, latitude, longitude)
	}

	fmt.Fprintln(os.Stdout, "ready")
	commandLoop(pub.reader, exec, logger)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// commandLoop reads and dispatches one command per line until stdin
// closes or a "quit" line arrives.
func commandLoop(reader *bufio.Reader, exec *executive.Executive, logger *zap.Logger) {
	for {
		line := parse.GetLine(reader)
		if line == "" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit":
			exec.Close()
			return
		case "start":
			exec.StartPlanner()
		case "stop":
			exec.CancelPlanner()
		case "clear":
			exec.ClearRibbons()
		case "ribbon":
			r, err := parse.ParseRibbon(strings.Join(fields[1:], " "))
			if err != nil {
				logger.Warn("bad ribbon command", zap.Error(err))
				continue
			}
			exec.AddRibbon(r.X1, r.Y1, r.X2, r.Y2)
		case "covered":
			s, err := parse.ParseState(strings.Join(fields[1:], " "))
			if err != nil {
				logger.Warn("bad covered command", zap.Error(err))
				continue
			}
			exec.UpdateCovered(s.X, s.Y, s.Heading, s.Speed, s.Time)
		case "obstacle":
			r, err := parse.ParseDynamicObstacleReport(strings.Join(fields[1:], " "))
			if err != nil {
				logger.Warn("bad obstacle command", zap.Error(err))
				continue
			}
			exec.UpdateDynamicObstacle(r.ID, r.State)
		case "map":
			if len(fields) < 4 {
				logger.Warn("map command needs a path, latitude, and longitude")
				continue
			}
			var lat, lon float64
			if _, err := fmt.Sscanf(strings.Join(fields[2:], " "), "%f %f", &lat, &lon); err != nil {
				logger.Warn("bad map command", zap.Error(err))
				continue
			}
			exec.RefreshMap(fields[1], lat, lon)
		default:
			logger.Warn("unknown command", zap.String("line", line))
		}
	}
}
