package dynamo

import (
	"fmt"
	"math"
)

// Constants holds the environment and boat parameters. Built once at
// startup and never mutated afterwards.
type Constants struct {
	AirDensity     float64 // kg/m^3
	SailArea       float64 // m^2
	HullDragCoeff  float64 // N per (m/s)^2
	BoatMass       float64 // kg
	OptimalAOA     float64 // deg
	StallStartAOA  float64 // deg
	MaxLiftCoeff   float64
	MinDragCoeff   float64
	StallDragCoeff float64
	DT             float64 // s
	MinWindSpeed   float64 // m/s
	MaxBoatSpeed   float64 // m/s
	LuffAOA        float64 // deg
	MaxHeel        float64 // deg
	HeelPerNewton  float64 // deg/N
	HeelResponse   float64 // 1/s
}

func DefaultConstants() Constants {
	return Constants{
		AirDensity:     1.225,
		SailArea:       20,
		HullDragCoeff:  60,
		BoatMass:       800,
		OptimalAOA:     15,
		StallStartAOA:  25,
		MaxLiftCoeff:   1.4,
		MinDragCoeff:   0.05,
		StallDragCoeff: 1.2,
		DT:             1.0 / 60.0,
		MinWindSpeed:   0.1,
		MaxBoatSpeed:   8,
		LuffAOA:        2,
		MaxHeel:        35,
		HeelPerNewton:  0.015,
		HeelResponse:   2,
	}
}

// Validate checks every constant once at load time. The per-tick code relies
// on these guarantees and does no further checking.
func (c Constants) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"air_density", c.AirDensity},
		{"sail_area", c.SailArea},
		{"hull_drag_coeff", c.HullDragCoeff},
		{"boat_mass", c.BoatMass},
		{"optimal_aoa", c.OptimalAOA},
		{"stall_start_aoa", c.StallStartAOA},
		{"max_lift_coeff", c.MaxLiftCoeff},
		{"min_drag_coeff", c.MinDragCoeff},
		{"stall_drag_coeff", c.StallDragCoeff},
		{"dt", c.DT},
		{"min_wind_speed", c.MinWindSpeed},
		{"max_boat_speed", c.MaxBoatSpeed},
		{"max_heel", c.MaxHeel},
		{"heel_per_newton", c.HeelPerNewton},
		{"heel_response", c.HeelResponse},
	}
	for _, p := range positive {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return &ParamError{Name: p.name, Value: p.value, Reason: "must be finite", Wrapped: ErrNonFinite}
		}
		if p.value <= 0 {
			return &ParamError{Name: p.name, Value: p.value, Reason: "must be positive", Wrapped: ErrParameterBounds}
		}
	}
	if c.LuffAOA < 0 || math.IsNaN(c.LuffAOA) || c.LuffAOA >= c.OptimalAOA {
		return &ParamError{Name: "luff_aoa", Value: c.LuffAOA, Reason: "must be in [0, optimal_aoa)", Wrapped: ErrParameterBounds}
	}
	if c.StallStartAOA <= c.OptimalAOA {
		return &ParamError{Name: "stall_start_aoa", Value: c.StallStartAOA, Reason: "must exceed optimal_aoa", Wrapped: ErrParameterBounds}
	}
	if c.StallStartAOA >= 90 {
		return &ParamError{Name: "stall_start_aoa", Value: c.StallStartAOA, Reason: "must be below 90", Wrapped: ErrParameterBounds}
	}
	if c.StallDragCoeff < c.MinDragCoeff {
		return &ParamError{Name: "stall_drag_coeff", Value: c.StallDragCoeff, Reason: "must not be below min_drag_coeff", Wrapped: ErrParameterBounds}
	}
	if c.MaxHeel > 90 {
		return &ParamError{Name: "max_heel", Value: c.MaxHeel, Reason: "must not exceed 90", Wrapped: ErrParameterBounds}
	}
	return nil
}

// Inputs are the fields written by external setters.
type Inputs struct {
	WindSpeed     float64 // m/s, true
	WindDirection float64 // deg, bearing the wind blows from
	SailAngle     float64 // deg, chord relative to the centreline
	Heading       float64 // deg, compass
}

// Regime is the aerodynamic operating band selected by angle of attack.
type Regime int

const (
	RegimeLuffing Regime = iota
	RegimeRising
	RegimePlateau
	RegimeStalled
)

func (r Regime) String() string {
	switch r {
	case RegimeLuffing:
		return "luffing"
	case RegimeRising:
		return "pre-stall-rising"
	case RegimePlateau:
		return "plateau"
	case RegimeStalled:
		return "stalled"
	default:
		return fmt.Sprintf("regime(%d)", int(r))
	}
}

// State is one snapshot of the simulation. Copies handed to callers never
// alias the simulator's own instance.
type State struct {
	Inputs

	ApparentWindSpeed float64 // m/s
	ApparentWindAngle float64 // deg, (-180, 180], positive = from starboard
	TrueWindAngle     float64 // deg, (-180, 180]
	AngleOfAttack     float64 // deg, [0, 180]

	LiftCoeff    float64
	DragCoeff    float64
	ForwardForce float64 // N
	SideForce    float64 // N, towards leeward

	BoatSpeed float64 // m/s
	HeelAngle float64 // deg, positive = heeled to port
	X, Y      float64 // m, east/north track position
	Time      float64 // s

	IsLuffing  bool
	IsStalled  bool
	Efficiency float64 // [0, 1]
	Regime     Regime
}

// Velocity returns the boat's velocity vector along its heading.
func (s State) Velocity() Vec2 {
	return FromBearing(s.Heading, s.BoatSpeed)
}

// IsValid reports whether every numeric field is finite.
func (s State) IsValid() bool {
	for _, v := range []float64{
		s.WindSpeed, s.WindDirection, s.SailAngle, s.Heading,
		s.ApparentWindSpeed, s.ApparentWindAngle, s.TrueWindAngle, s.AngleOfAttack,
		s.LiftCoeff, s.DragCoeff, s.ForwardForce, s.SideForce,
		s.BoatSpeed, s.HeelAngle, s.X, s.Y, s.Time, s.Efficiency,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ClearOutputs zeroes everything except the inputs.
func (s State) ClearOutputs() State {
	return State{Inputs: s.Inputs}
}

// Knots converts metres per second to knots.
func Knots(ms float64) float64 { return ms * 3600 / 1852 }

// MetresPerSecond converts knots to metres per second.
func MetresPerSecond(kn float64) float64 { return kn * 1852 / 3600 }

// Trimmer chooses a sail angle for the next tick from the latest snapshot.
type Trimmer interface {
	Trim(s State, t float64) float64
}

type Metric interface {
	Name() string
	Observe(s State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s State)
}
