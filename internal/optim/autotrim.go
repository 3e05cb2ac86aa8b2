package optim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/experiment"
)

// GainNames are the auto-trim parameters TuneAutoTrim accepts.
var GainNames = []string{"kp", "ki", "kd", "max_rate", "target_aoa"}

// ApplyGains writes named auto-trim parameters into cfg.
func ApplyGains(cfg *config.Config, params map[string]float64) error {
	for name, v := range params {
		switch name {
		case "kp":
			cfg.Trim.Kp = v
		case "ki":
			cfg.Trim.Ki = v
		case "kd":
			cfg.Trim.Kd = v
		case "max_rate":
			cfg.Trim.MaxRate = v
		case "target_aoa":
			cfg.Trim.TargetAOA = v
		default:
			return fmt.Errorf("optim: unknown auto-trim parameter %q (want one of %v)", name, GainNames)
		}
	}
	return nil
}

// TuneAutoTrim grid-searches auto-trim parameters on base's scenario.
// Trim mode is forced to auto.
func TuneAutoTrim(
	ctx context.Context,
	base *config.Config,
	reg *experiment.Registry,
	grid map[string][]float64,
	obj Objective,
) (Trial, []Trial, error) {
	names := make([]string, 0, len(grid))
	for name := range grid {
		names = append(names, name)
	}
	sort.Strings(names)
	ranges := make([][]float64, len(names))
	for i, name := range names {
		ranges[i] = grid[name]
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *base
		c.Trim.Mode = "auto"
		if err := ApplyGains(&c, params); err != nil {
			return nil, err
		}
		return experiment.New("tune", &c, reg)
	}
	return NewGridSearch(names, ranges).Search(ctx, build, obj)
}
