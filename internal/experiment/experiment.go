package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
	"github.com/san-kum/sailsim/internal/storage"
)

const DefaultIntegrator = "semi-implicit-euler"

// Experiment is one configured scenario ready to run.
type Experiment struct {
	name       string
	cfg        *config.Config
	integrator string
	simulator  *sim.Simulator
	trimmer    dynamo.Trimmer
	table      *polar.Table
}

type Option func(*Experiment)

// WithIntegrator selects an integrator by registry name.
func WithIntegrator(name string) Option {
	return func(e *Experiment) { e.integrator = name }
}

// WithoutPolar leaves efficiency as the lift ratio.
func WithoutPolar() Option {
	return func(e *Experiment) { e.table = nil }
}

// New validates cfg and wires a simulator, trimmer, polar reference and the
// default metrics. name labels the run in storage.
func New(name string, cfg *config.Config, reg *Registry, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := reg.GetTable(cfg.Polar)
	if err != nil {
		return nil, err
	}

	e := &Experiment{name: name, cfg: cfg, integrator: DefaultIntegrator, table: table}
	for _, opt := range opts {
		opt(e)
	}

	integ, err := reg.GetIntegrator(e.integrator)
	if err != nil {
		return nil, err
	}
	trimmer, err := reg.GetTrimmer(cfg.Trim, cfg.Scenario.SailAngle)
	if err != nil {
		return nil, err
	}
	e.trimmer = trimmer

	simOpts := []sim.Option{sim.WithIntegrator(integ)}
	if e.table != nil {
		simOpts = append(simOpts, sim.WithPolar(polar.NewInterpolator(e.table)))
	}
	e.simulator = sim.New(cfg.Physics.Constants(), cfg.Scenario.Inputs(), simOpts...)
	for _, m := range reg.DefaultMetrics() {
		e.simulator.AddMetric(m)
	}

	return e, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	job := e.Job()
	return job.Sim.Run(ctx, job.Config)
}

// Job packages the experiment for sim.RunBatch.
func (e *Experiment) Job() sim.Job {
	return sim.Job{
		Sim: e.simulator,
		Config: sim.RunConfig{
			Duration: e.cfg.Scenario.Duration,
			Trimmer:  e.trimmer,
		},
	}
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Trimmer() dynamo.Trimmer { return e.trimmer }

// Table is the polar reference, nil when disabled.
func (e *Experiment) Table() *polar.Table { return e.table }

// Metadata describes the experiment for storage.
func (e *Experiment) Metadata() storage.RunMetadata {
	meta := storage.RunMetadata{
		Scenario:  e.name,
		Dt:        e.cfg.Physics.DT,
		Duration:  e.cfg.Scenario.Duration,
		Trimmer:   e.cfg.Trim.Mode,
		Inputs:    e.cfg.Scenario.Inputs(),
		Constants: e.cfg.Physics.Constants(),
	}
	if e.table != nil {
		meta.Polar = e.table.String()
	}
	return meta
}
