package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/control"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/integrators"
	"github.com/san-kum/sailsim/internal/metrics"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
)

type Registry struct {
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() sim.Integrator),
	}

	r.integrators["semi-implicit-euler"] = func() sim.Integrator { return integrators.NewSemiImplicitEuler() }
	r.integrators["explicit-euler"] = func() sim.Integrator { return integrators.NewExplicitEuler() }

	return r
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	if name == "" {
		name = DefaultIntegrator
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// GetTrimmer builds the trimmer for cfg. sail is the starting sail angle,
// held by the manual trimmer.
func (r *Registry) GetTrimmer(cfg config.TrimConfig, sail float64) (dynamo.Trimmer, error) {
	if cfg.Mode == "auto" {
		return control.NewAutoTrim(control.Gains{
			Kp:      cfg.Kp,
			Ki:      cfg.Ki,
			Kd:      cfg.Kd,
			MaxRate: cfg.MaxRate,
		}, cfg.TargetAOA), nil
	}
	return control.New(cfg.Mode, sail, cfg.TargetAOA)
}

// GetTable loads the polar file when one is configured, otherwise the
// named built-in table.
func (r *Registry) GetTable(cfg config.PolarConfig) (*polar.Table, error) {
	if cfg.File != "" {
		return polar.LoadTableFile(cfg.File)
	}
	return polar.Builtin(cfg.Table)
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListTrimmers() []string { return control.Names() }

func (r *Registry) ListTables() []string { return polar.BuiltinNames() }

func (r *Registry) ListMetrics() []string { return metrics.Names() }

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return metrics.All()
}
