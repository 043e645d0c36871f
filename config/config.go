// Package config loads the YAML configuration file cmd/ccomplanner
// reads at startup, grounded in the teacher's plain positional-flag
// configuration generalized to the richer knob set this module exposes.
package config

import (
	"fmt"
	"os"

	"github.com/afb2001/CCOM_planner/ribbon"
	"gopkg.in/yaml.v3"
)

// Config is the planner's static startup configuration: the vehicle
// envelope, the coverage heuristic, and where (if anywhere) to write a
// visualization of each plan.
type Config struct {
	TurningRadius         float64 `yaml:"turningRadius"`
	CoverageTurningRadius float64 `yaml:"coverageTurningRadius"`
	MaxSpeed              float64 `yaml:"maxSpeed"`
	LineWidth             float64 `yaml:"lineWidth"`
	KNearest              int     `yaml:"k"`
	Heuristic             int     `yaml:"heuristic"`
	Visualize             bool    `yaml:"visualize"`
	VisualizationFilePath string  `yaml:"visualizationFilePath"`
}

// Default matches the teacher's historical defaults: a 1-meter-radius
// turn, 2 m/s cruise speed, 2-meter-wide ribbons, branching factor 3, and
// the TspPointRobotNoSplitKRibbons heuristic.
func Default() Config {
	return Config{
		TurningRadius:         1,
		CoverageTurningRadius: 1,
		MaxSpeed:              2,
		LineWidth:             2,
		KNearest:              3,
		Heuristic:             int(ribbon.TspPointRobotNoSplitKRibbons),
		Visualize:             false,
		VisualizationFilePath: "",
	}
}

// Load reads and validates a Config from a YAML file at path.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return c, nil
}

// Validate checks that every value is physically sensible before the
// executive trusts it.
func (c Config) Validate() error {
	if c.TurningRadius <= 0 {
		return fmt.Errorf("turningRadius must be positive, got %v", c.TurningRadius)
	}
	if c.CoverageTurningRadius <= 0 {
		return fmt.Errorf("coverageTurningRadius must be positive, got %v", c.CoverageTurningRadius)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("maxSpeed must be positive, got %v", c.MaxSpeed)
	}
	if c.LineWidth <= 0 {
		return fmt.Errorf("lineWidth must be positive, got %v", c.LineWidth)
	}
	if c.KNearest <= 0 {
		return fmt.Errorf("k must be positive, got %v", c.KNearest)
	}
	if c.Heuristic < int(ribbon.MaxDistance) || c.Heuristic > int(ribbon.TspDubinsNoSplitKRibbons) {
		return fmt.Errorf("unknown heuristic %d", c.Heuristic)
	}
	return nil
}

// RibbonHeuristic converts the configured heuristic number to a
// ribbon.Heuristic.
func (c Config) RibbonHeuristic() ribbon.Heuristic {
	return ribbon.Heuristic(c.Heuristic)
}
