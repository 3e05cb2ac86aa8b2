package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/sailsim/internal/aero"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/integrators"
)

// Simulator owns the single authoritative State. Every accessor returns a
// copy. It is not safe for concurrent use; wrap it in Guarded for that.
type Simulator struct {
	c          dynamo.Constants
	model      Evaluator
	integrator Integrator
	target     SpeedTarget
	state      dynamo.State
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

type Option func(*Simulator)

func WithModel(m Evaluator) Option {
	return func(s *Simulator) { s.model = m }
}

func WithIntegrator(i Integrator) Option {
	return func(s *Simulator) { s.integrator = i }
}

// WithPolar makes Efficiency the ratio of boat speed to the polar target
// instead of the lift ratio.
func WithPolar(t SpeedTarget) Option {
	return func(s *Simulator) { s.target = t }
}

// New expects c to have passed Validate.
func New(c dynamo.Constants, in dynamo.Inputs, opts ...Option) *Simulator {
	s := &Simulator{
		c:          c,
		model:      aero.New(),
		integrator: integrators.NewSemiImplicitEuler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Inputs = dynamo.Inputs{
		WindSpeed:     dynamo.Finite(in.WindSpeed),
		WindDirection: dynamo.Finite(in.WindDirection),
		SailAngle:     dynamo.Finite(in.SailAngle),
		Heading:       dynamo.Finite(in.Heading),
	}
	return s
}

func (s *Simulator) Constants() dynamo.Constants { return s.c }

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Step evaluates the sail and integrates the boat once over dt. A
// non-positive or non-finite dt changes nothing.
func (s *Simulator) Step(dt float64) dynamo.State {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return s.state
	}
	out := s.model.Evaluate(s.state.Inputs, s.state.Velocity(), s.c)
	next := s.integrator.Step(s.state, out, s.c, dt)
	if s.target != nil {
		next.Efficiency = s.polarEfficiency(next)
	}
	s.state = next
	return next
}

// Tick steps by the configured fixed timestep.
func (s *Simulator) Tick() dynamo.State {
	return s.Step(s.c.DT)
}

func (s *Simulator) polarEfficiency(st dynamo.State) float64 {
	target := s.target.SpeedFor(dynamo.Knots(st.WindSpeed), st.TrueWindAngle)
	if !(target > 0) {
		return 0
	}
	return dynamo.Clamp(dynamo.Finite(dynamo.Knots(st.BoatSpeed)/target), 0, 1)
}

// Reset returns the boat to rest at the origin and keeps the inputs.
func (s *Simulator) Reset() {
	s.state = s.state.ClearOutputs()
}

func (s *Simulator) State() dynamo.State { return s.state }

func (s *Simulator) SetSailAngle(deg float64)     { s.state.SailAngle = dynamo.Finite(deg) }
func (s *Simulator) SetWindDirection(deg float64) { s.state.WindDirection = dynamo.Finite(deg) }
func (s *Simulator) SetWindSpeed(ms float64)      { s.state.WindSpeed = dynamo.Finite(ms) }
func (s *Simulator) SetHeading(deg float64)       { s.state.Heading = dynamo.Finite(deg) }

// SetInputs replaces all four inputs at once.
func (s *Simulator) SetInputs(in dynamo.Inputs) {
	s.SetWindSpeed(in.WindSpeed)
	s.SetWindDirection(in.WindDirection)
	s.SetSailAngle(in.SailAngle)
	s.SetHeading(in.Heading)
}

// Run ticks from the current state for cfg.Duration seconds. The trimmer,
// if any, sets the sail angle before every tick.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	dt := cfg.DT
	if dt == 0 {
		dt = s.c.DT
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("dt must be positive, got %f", dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return nil, fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := int(math.Round(cfg.Duration / dt))
	result := &Result{
		States:  make([]dynamo.State, 0, steps/every+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.States = append(result.States, s.state)
	start := s.state.Time

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.Trimmer != nil {
			s.SetSailAngle(cfg.Trimmer.Trim(s.state, s.state.Time-start))
		}

		x := s.Step(dt)
		result.StepsTaken++

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: x.Time, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		for _, m := range s.metrics {
			m.Observe(x)
		}
		for _, obs := range s.observers {
			obs.OnStep(x)
		}

		if (i+1)%every == 0 || i == steps-1 {
			result.States = append(result.States, x)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
