// Package automation runs scripted scenario sequences and randomised
// robustness trials.
package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"github.com/san-kum/sailsim/internal/config"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/experiment"
	"github.com/san-kum/sailsim/internal/sim"
	"github.com/san-kum/sailsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Script is a named list of runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step starts from Preset (or the base config) and overrides whatever is
// set. Angles in degrees, wind in m/s.
type Step struct {
	Name          string   `yaml:"name"`
	Preset        string   `yaml:"preset"`
	Integrator    string   `yaml:"integrator"`
	Trim          string   `yaml:"trim"`
	Duration      float64  `yaml:"duration"`
	WindSpeed     *float64 `yaml:"wind_speed"`
	WindDirection *float64 `yaml:"wind_direction"`
	SailAngle     *float64 `yaml:"sail_angle"`
	Heading       *float64 `yaml:"heading"`
	Save          bool     `yaml:"save"`
}

// StepResult is one finished step. RunID is empty unless the step was saved.
type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script %q has no steps", s.Name)
	}
	return &s, nil
}

func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScript(f)
}

// config resolves the step against base.
func (st Step) config(base *config.Config) (*config.Config, error) {
	c := *base
	if st.Preset != "" {
		p := config.GetPreset(st.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", st.Preset)
		}
		c.Scenario, c.Trim.Mode = p.Scenario, p.Trim.Mode
	}
	if st.Trim != "" {
		c.Trim.Mode = st.Trim
	}
	if st.Duration > 0 {
		c.Scenario.Duration = st.Duration
	}
	for _, o := range []struct {
		v   *float64
		dst *float64
	}{
		{st.WindSpeed, &c.Scenario.WindSpeed},
		{st.WindDirection, &c.Scenario.WindDirection},
		{st.SailAngle, &c.Scenario.SailAngle},
		{st.Heading, &c.Scenario.Heading},
	} {
		if o.v != nil {
			*o.dst = *o.v
		}
	}
	return &c, nil
}

// RunScript runs the steps in order. Steps marked save go to store when it
// is non-nil. It stops at the first failing step and returns what finished.
func RunScript(
	ctx context.Context,
	script *Script,
	base *config.Config,
	reg *experiment.Registry,
	store *storage.Store,
	log *slog.Logger,
) ([]StepResult, error) {
	if log == nil {
		log = slog.Default()
	}
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", script.Name, i+1)
		}
		log.Info("running step", "step", i+1, "of", len(script.Steps), "name", name)

		cfg, err := step.config(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		var opts []experiment.Option
		if step.Integrator != "" {
			opts = append(opts, experiment.WithIntegrator(step.Integrator))
		}
		exp, err := experiment.New(name, cfg, reg, opts...)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Result: result}
		if step.Save && store != nil {
			if sr.RunID, err = store.Save(exp.Metadata(), result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs the base scenario's wind uniformly within
// ±WindSpeedJitter (fraction) and ±DirectionJitter (degrees).
type MonteCarloConfig struct {
	Trials          int
	WindSpeedJitter float64
	DirectionJitter float64
	Seed            int64
}

type MonteCarloResult struct {
	Trial     int
	Inputs    dynamo.Inputs
	Final     dynamo.State
	TrimScore float64 // trim_quality
	AvgSpeed  float64 // m/s
}

// InGroove reports whether the trial ended with the sail drawing.
func (r MonteCarloResult) InGroove() bool {
	return r.Final.Regime == dynamo.RegimePlateau || r.Final.Regime == dynamo.RegimeRising
}

// RunMonteCarlo runs the base scenario under random wind. Perturbations are
// drawn up front from Seed so results do not depend on scheduling.
func RunMonteCarlo(ctx context.Context, base *config.Config, reg *experiment.Registry, mc MonteCarloConfig) ([]MonteCarloResult, error) {
	if mc.Trials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial")
	}
	rng := rand.New(rand.NewSource(mc.Seed))

	cfgs := make([]*config.Config, mc.Trials)
	for i := range cfgs {
		c := *base
		c.Scenario.WindSpeed = math.Max(0, c.Scenario.WindSpeed*(1+(rng.Float64()*2-1)*mc.WindSpeedJitter))
		c.Scenario.WindDirection = dynamo.Wrap180(c.Scenario.WindDirection + (rng.Float64()*2-1)*mc.DirectionJitter)
		cfgs[i] = &c
	}

	jobs := make([]sim.Job, mc.Trials)
	for i, c := range cfgs {
		exp, err := experiment.New(fmt.Sprintf("trial-%d", i), c, reg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		jobs[i] = exp.Job()
	}

	runs, err := sim.RunBatch(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("monte carlo: %w", err)
	}

	results := make([]MonteCarloResult, mc.Trials)
	for i, res := range runs {
		results[i] = MonteCarloResult{
			Trial:     i,
			Inputs:    cfgs[i].Scenario.Inputs(),
			Final:     res.Final(),
			TrimScore: res.Metrics["trim_quality"],
			AvgSpeed:  res.Metrics["avg_speed"],
		}
	}
	return results, nil
}

// MonteCarloStats summarises trials.
func MonteCarloStats(results []MonteCarloResult) (inGroove int, meanSpeed float64) {
	for _, r := range results {
		if r.InGroove() {
			inGroove++
		}
		meanSpeed += r.Final.BoatSpeed
	}
	if len(results) > 0 {
		meanSpeed /= float64(len(results))
	}
	return inGroove, meanSpeed
}
