package integrators

import (
	"math"

	"github.com/san-kum/sailsim/internal/aero"
	"github.com/san-kum/sailsim/internal/dynamo"
)

// SemiImplicitEuler advances boat speed from the net forward force, then
// moves the boat with the updated speed.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

// HullDrag is the quadratic resistance opposing motion at speed v.
func HullDrag(v float64, c dynamo.Constants) float64 {
	return c.HullDragCoeff * v * math.Abs(v)
}

// NetForwardForce is sail drive minus hull drag.
func NetForwardForce(fwd, v float64, c dynamo.Constants) float64 {
	return fwd - HullDrag(v, c)
}

// Step returns s advanced by dt using the aerodynamic output out. A
// non-positive or non-finite dt returns s untouched.
func (e *SemiImplicitEuler) Step(s dynamo.State, out aero.Output, c dynamo.Constants, dt float64) dynamo.State {
	return step(s, out, c, dt, true)
}

// ExplicitEuler moves the boat with the speed it had at the start of the
// tick. Kept for comparison runs; it lags the semi-implicit track by one
// tick of travel.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (e *ExplicitEuler) Step(s dynamo.State, out aero.Output, c dynamo.Constants, dt float64) dynamo.State {
	return step(s, out, c, dt, false)
}

func step(s dynamo.State, out aero.Output, c dynamo.Constants, dt float64, semiImplicit bool) dynamo.State {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return s
	}

	next := s
	next.ApparentWindSpeed = out.ApparentWindSpeed
	next.ApparentWindAngle = out.ApparentWindAngle
	next.TrueWindAngle = out.TrueWindAngle
	next.AngleOfAttack = out.AngleOfAttack
	next.LiftCoeff = out.Lift
	next.DragCoeff = out.Drag
	next.ForwardForce = dynamo.Finite(out.ForwardForce)
	next.SideForce = dynamo.Finite(out.SideForce)
	next.IsLuffing = out.IsLuffing
	next.IsStalled = out.IsStalled
	next.Regime = out.Regime

	v0 := dynamo.Clamp(dynamo.Finite(s.BoatSpeed), 0, c.MaxBoatSpeed)
	accel := NetForwardForce(next.ForwardForce, v0, c) / c.BoatMass
	v := dynamo.Clamp(dynamo.Finite(v0+accel*dt), 0, c.MaxBoatSpeed)
	next.BoatSpeed = v

	travel := v
	if !semiImplicit {
		travel = v0
	}
	pos := dynamo.Vec2{X: s.X, Y: s.Y}.Add(dynamo.FromBearing(s.Heading, travel*dt))
	next.X, next.Y = dynamo.Finite(pos.X), dynamo.Finite(pos.Y)

	next.HeelAngle = heel(s.HeelAngle, next.SideForce, out.ApparentWindAngle, c, dt)
	next.Efficiency = dynamo.Clamp(out.Lift/c.MaxLiftCoeff, 0, 1)
	next.Time = s.Time + dt

	return next
}

// heel lags towards a target proportional to side force. The boat leans
// away from the wind: wind over starboard heels it to port (positive).
func heel(current, side, awa float64, c dynamo.Constants, dt float64) float64 {
	target := dynamo.Clamp(c.HeelPerNewton*math.Abs(side), 0, c.MaxHeel)
	if awa < 0 {
		target = -target
	}
	blend := math.Min(1, c.HeelResponse*dt)
	h := dynamo.Finite(current)
	h += (target - h) * blend
	return dynamo.Clamp(h, -c.MaxHeel, c.MaxHeel)
}
