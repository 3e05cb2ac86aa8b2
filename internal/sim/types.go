package sim

import (
	"fmt"

	"github.com/san-kum/sailsim/internal/aero"
	"github.com/san-kum/sailsim/internal/dynamo"
)

// Evaluator produces the aerodynamic output for one tick.
type Evaluator interface {
	Evaluate(in dynamo.Inputs, boatVel dynamo.Vec2, c dynamo.Constants) aero.Output
}

// Integrator advances a snapshot by dt given that tick's aerodynamic output.
type Integrator interface {
	Step(s dynamo.State, out aero.Output, c dynamo.Constants, dt float64) dynamo.State
}

// SpeedTarget gives a polar target speed in knots for a true wind speed in
// knots and a true wind angle in degrees.
type SpeedTarget interface {
	SpeedFor(tws, twa float64) float64
}

type RunConfig struct {
	Duration float64 // s
	DT       float64 // s, zero means Constants.DT
	// RecordEvery keeps one snapshot in every n ticks; zero or one keeps all.
	RecordEvery   int
	Trimmer       dynamo.Trimmer
	ValidateState bool
}

type Result struct {
	States     []dynamo.State
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded snapshot.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return dynamo.State{}
	}
	return r.States[len(r.States)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.3fs): %s", e.Step, e.Time, e.Message)
}
