package aero

import (
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// Output is everything the aerodynamic model derives for one tick.
type Output struct {
	ApparentWindSpeed float64
	ApparentWindAngle float64
	TrueWindAngle     float64
	AngleOfAttack     float64
	Coefficients
	ForwardForce float64
	SideForce    float64
	IsLuffing    bool
	IsStalled    bool
}

// MaxWindSpeed caps true wind and boat velocity in m/s so force terms stay finite for any
// finite input.
const MaxWindSpeed = 100.0

// Model turns inputs and boat velocity into sail forces. It holds no
// mutable state and is safe to share.
type Model struct {
	Curve Curve
}

func New() *Model {
	return &Model{Curve: DefaultCurve()}
}

// TrueWind is the velocity of the air over the ground: it blows from
// WindDirection, so it travels towards the opposite bearing.
func TrueWind(in dynamo.Inputs) dynamo.Vec2 {
	return dynamo.FromBearing(in.WindDirection+180, in.WindSpeed)
}

// ApparentWind is the air velocity felt aboard: true wind minus boat velocity.
func ApparentWind(in dynamo.Inputs, boatVel dynamo.Vec2) dynamo.Vec2 {
	return TrueWind(in).Sub(boatVel)
}

// WindAngle is the angle between the bow and the bearing a wind flow comes
// from, in (-180, 180]; positive means the wind is over the starboard side.
func WindAngle(flow dynamo.Vec2, heading float64) float64 {
	from := flow.Scale(-1).Bearing()
	return dynamo.Wrap180(from - heading)
}

// AngleOfAttack measures the apparent wind against the sail, with the sail
// always on the leeward side, so port and starboard tacks are mirror images.
func AngleOfAttack(awa, sailAngle float64) float64 {
	sail := math.Abs(sailAngle)
	if awa < 0 {
		sail = -sail
	}
	return dynamo.Fold180(awa - sail)
}

// Evaluate is a pure function of its arguments.
func (m *Model) Evaluate(in dynamo.Inputs, boatVel dynamo.Vec2, c dynamo.Constants) Output {
	in = sanitize(in)
	boatVel = dynamo.Vec2{X: dynamo.Finite(boatVel.X), Y: dynamo.Finite(boatVel.Y)}
	if l := boatVel.Len(); l > MaxWindSpeed {
		boatVel = boatVel.Scale(MaxWindSpeed / l)
	}

	flow := ApparentWind(in, boatVel)
	aws := flow.Len()
	floored := aws < c.MinWindSpeed
	if floored {
		aws = c.MinWindSpeed
	}

	out := Output{
		ApparentWindSpeed: aws,
		TrueWindAngle:     dynamo.Wrap180(in.WindDirection - in.Heading),
	}
	if floored {
		// Too little flow to resolve a direction; fall back to the true wind.
		out.ApparentWindAngle = out.TrueWindAngle
	} else {
		out.ApparentWindAngle = WindAngle(flow, in.Heading)
	}
	out.AngleOfAttack = AngleOfAttack(out.ApparentWindAngle, in.SailAngle)

	out.Coefficients = m.Curve.Coefficients(out.AngleOfAttack, c)
	if floored {
		out.Coefficients = Coefficients{Regime: dynamo.RegimeLuffing}
	}
	out.IsLuffing = out.Regime == dynamo.RegimeLuffing
	out.IsStalled = out.Regime == dynamo.RegimeStalled
	if out.IsLuffing {
		return out
	}

	q := 0.5 * c.AirDensity * aws * aws * c.SailArea
	lift := q * out.Lift
	drag := q * out.Drag

	beta := dynamo.Radians(math.Abs(out.ApparentWindAngle))
	sin, cos := math.Sincos(beta)
	out.ForwardForce = lift*sin - drag*cos
	out.SideForce = lift*cos + drag*sin

	return out
}

func sanitize(in dynamo.Inputs) dynamo.Inputs {
	return dynamo.Inputs{
		WindSpeed:     math.Min(math.Abs(dynamo.Finite(in.WindSpeed)), MaxWindSpeed),
		WindDirection: dynamo.Wrap360(dynamo.Finite(in.WindDirection)),
		SailAngle:     dynamo.Wrap180(dynamo.Finite(in.SailAngle)),
		Heading:       dynamo.Wrap360(dynamo.Finite(in.Heading)),
	}
}
