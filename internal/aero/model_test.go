package aero

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/sailsim/internal/dynamo"
)

func TestLiftNonDecreasingBeforeOptimal(t *testing.T) {
	c := dynamo.DefaultConstants()
	cv := DefaultCurve()

	prev := -1.0
	for aoa := 0.0; aoa < c.OptimalAOA; aoa += 0.05 {
		cl := cv.Coefficients(aoa, c).Lift
		if cl < prev {
			t.Fatalf("lift decreased at aoa=%.2f: %f < %f", aoa, cl, prev)
		}
		prev = cl
	}
}

func TestRegimeBoundaries(t *testing.T) {
	c := dynamo.DefaultConstants()
	cv := DefaultCurve()

	tests := []struct {
		aoa    float64
		regime dynamo.Regime
	}{
		{0, dynamo.RegimeLuffing},
		{c.LuffAOA - 0.01, dynamo.RegimeLuffing},
		{c.LuffAOA, dynamo.RegimeRising},
		{c.OptimalAOA - 0.01, dynamo.RegimeRising},
		{c.OptimalAOA, dynamo.RegimePlateau},
		{c.StallStartAOA - 0.01, dynamo.RegimePlateau},
		{c.StallStartAOA, dynamo.RegimeStalled},
		{90, dynamo.RegimeStalled},
		{180, dynamo.RegimeStalled},
	}

	for _, tt := range tests {
		if got := RegimeFor(tt.aoa, c); got != tt.regime {
			t.Errorf("aoa %.2f: expected %v, got %v", tt.aoa, tt.regime, got)
		}
	}

	clOpt, cdOpt := cv.AtOptimal(c)
	at := cv.Coefficients(c.OptimalAOA, c)
	if math.Abs(at.Lift-clOpt) > 1e-12 || math.Abs(at.Drag-cdOpt) > 1e-12 {
		t.Errorf("plateau does not start at optimal boundary: %+v vs (%f, %f)", at, clOpt, cdOpt)
	}
	below := cv.Coefficients(c.OptimalAOA-1e-9, c)
	if math.Abs(below.Lift-clOpt) > 1e-6 || math.Abs(below.Drag-cdOpt) > 1e-6 {
		t.Errorf("rising regime does not meet optimal boundary: %+v", below)
	}

	clStall, cdStall := cv.AtStallOnset(c)
	at = cv.Coefficients(c.StallStartAOA, c)
	if math.Abs(at.Lift-clStall) > 1e-12 || math.Abs(at.Drag-cdStall) > 1e-12 {
		t.Errorf("stall does not start at onset boundary: %+v vs (%f, %f)", at, clStall, cdStall)
	}
	below = cv.Coefficients(c.StallStartAOA-1e-9, c)
	if math.Abs(below.Lift-clStall) > 1e-6 || math.Abs(below.Drag-cdStall) > 1e-6 {
		t.Errorf("plateau does not meet stall boundary: %+v", below)
	}
}

func TestStalledDragNeverBelowOnset(t *testing.T) {
	c := dynamo.DefaultConstants()
	cv := DefaultCurve()
	_, cdStall := cv.AtStallOnset(c)

	for aoa := c.StallStartAOA; aoa <= 180; aoa += 0.5 {
		co := cv.Coefficients(aoa, c)
		if co.Regime != dynamo.RegimeStalled {
			t.Fatalf("aoa %.1f: expected stalled, got %v", aoa, co.Regime)
		}
		if co.Drag < cdStall {
			t.Fatalf("aoa %.1f: drag %f below stall onset %f", aoa, co.Drag, cdStall)
		}
		if co.Lift < 0 {
			t.Fatalf("aoa %.1f: negative lift %f", aoa, co.Lift)
		}
	}

	flat := cv.Coefficients(90, c)
	if flat.Lift != 0 {
		t.Errorf("expected zero lift at flat plate, got %f", flat.Lift)
	}
	if math.Abs(flat.Drag-c.StallDragCoeff) > 1e-12 {
		t.Errorf("expected stall drag %f at flat plate, got %f", c.StallDragCoeff, flat.Drag)
	}
}

func TestEvaluateStalledFlag(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()
	_, cdStall := m.Curve.AtStallOnset(c)

	// Stationary boat, beam wind: AOA = 90 - sail angle.
	for sail := 0.0; sail < 90-c.StallStartAOA; sail += 5 {
		in := dynamo.Inputs{WindSpeed: 6, WindDirection: 90, Heading: 0, SailAngle: sail}
		out := m.Evaluate(in, dynamo.Vec2{}, c)
		if !out.IsStalled {
			t.Errorf("sail %.0f (aoa %.1f): expected stalled", sail, out.AngleOfAttack)
		}
		if out.IsLuffing {
			t.Errorf("sail %.0f: stalled sail reported luffing", sail)
		}
		if out.Drag < cdStall {
			t.Errorf("sail %.0f: drag %f below stall onset %f", sail, out.Drag, cdStall)
		}
	}
}

func TestEvaluateLuffingAtWindFloor(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()

	tests := []struct {
		name    string
		in      dynamo.Inputs
		boatVel dynamo.Vec2
	}{
		{"no wind", dynamo.Inputs{WindSpeed: 0, WindDirection: 90, SailAngle: 40}, dynamo.Vec2{}},
		{"below floor", dynamo.Inputs{WindSpeed: c.MinWindSpeed / 2, WindDirection: 45, SailAngle: 30}, dynamo.Vec2{}},
		{"boat matches wind", dynamo.Inputs{WindSpeed: 3, WindDirection: 180, SailAngle: 80}, dynamo.Vec2{X: 0, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.Evaluate(tt.in, tt.boatVel, c)
			if !out.IsLuffing {
				t.Error("expected luffing")
			}
			if out.ApparentWindSpeed != c.MinWindSpeed {
				t.Errorf("expected floored aws %f, got %f", c.MinWindSpeed, out.ApparentWindSpeed)
			}
			if math.Abs(out.ForwardForce) > 1e-12 || math.Abs(out.SideForce) > 1e-12 {
				t.Errorf("expected zero force, got fwd=%f side=%f", out.ForwardForce, out.SideForce)
			}
			if out.Lift != 0 || out.Drag != 0 {
				t.Errorf("expected zero coefficients, got %+v", out.Coefficients)
			}
		})
	}
}

func TestEvaluateLuffingBelowThreshold(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()

	// Beam wind with the sail eased right out to it.
	out := m.Evaluate(dynamo.Inputs{WindSpeed: 8, WindDirection: 90, SailAngle: 89.5}, dynamo.Vec2{}, c)
	if !out.IsLuffing {
		t.Fatalf("expected luffing at aoa %.2f", out.AngleOfAttack)
	}
	if out.ForwardForce != 0 || out.SideForce != 0 {
		t.Errorf("expected zero force while luffing, got %f/%f", out.ForwardForce, out.SideForce)
	}
}

func TestApparentWind(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()

	tests := []struct {
		name    string
		in      dynamo.Inputs
		boatVel dynamo.Vec2
		aws     float64
		awa     float64
	}{
		{"head wind adds", dynamo.Inputs{WindSpeed: 5, WindDirection: 0, Heading: 0}, dynamo.Vec2{Y: 3}, 8, 0},
		{"beam wind shifts forward", dynamo.Inputs{WindSpeed: 4, WindDirection: 90, Heading: 0}, dynamo.Vec2{Y: 3}, 5, dynamo.Degrees(math.Atan2(4, 3))},
		{"port side is negative", dynamo.Inputs{WindSpeed: 4, WindDirection: 270, Heading: 0}, dynamo.Vec2{Y: 3}, 5, -dynamo.Degrees(math.Atan2(4, 3))},
		{"tail wind subtracts", dynamo.Inputs{WindSpeed: 6, WindDirection: 180, Heading: 0}, dynamo.Vec2{Y: 2}, 4, 180},
		{"heading relative", dynamo.Inputs{WindSpeed: 6, WindDirection: 135, Heading: 90}, dynamo.Vec2{}, 6, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.Evaluate(tt.in, tt.boatVel, c)
			if math.Abs(out.ApparentWindSpeed-tt.aws) > 1e-9 {
				t.Errorf("expected aws %f, got %f", tt.aws, out.ApparentWindSpeed)
			}
			if math.Abs(dynamo.Wrap180(out.ApparentWindAngle-tt.awa)) > 1e-6 {
				t.Errorf("expected awa %f, got %f", tt.awa, out.ApparentWindAngle)
			}
		})
	}
}

func TestForceDecompositionBeamReach(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()

	in := dynamo.Inputs{WindSpeed: 6, WindDirection: 90, Heading: 0, SailAngle: 90 - c.OptimalAOA - 2}
	out := m.Evaluate(in, dynamo.Vec2{}, c)

	if out.Regime != dynamo.RegimePlateau {
		t.Fatalf("expected plateau just past optimal aoa, got %v (aoa %.3f)", out.Regime, out.AngleOfAttack)
	}

	q := 0.5 * c.AirDensity * 36 * c.SailArea
	// Lift is perpendicular to a beam wind, so it all drives forward; drag all heels.
	if math.Abs(out.ForwardForce-q*out.Lift) > 1e-6 {
		t.Errorf("expected forward %f, got %f", q*out.Lift, out.ForwardForce)
	}
	if math.Abs(out.SideForce-q*out.Drag) > 1e-6 {
		t.Errorf("expected side %f, got %f", q*out.Drag, out.SideForce)
	}
}

func TestDownwindDragDrives(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()

	out := m.Evaluate(dynamo.Inputs{WindSpeed: 6, WindDirection: 180, Heading: 0, SailAngle: 90}, dynamo.Vec2{}, c)
	if !out.IsStalled {
		t.Fatalf("expected a squared-off sail to be stalled, got %v", out.Regime)
	}
	if out.ForwardForce <= 0 {
		t.Errorf("expected positive drive running downwind, got %f", out.ForwardForce)
	}
}

func TestTackSymmetry(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()

	for _, twa := range []float64{30, 45, 60, 90, 120, 150} {
		for _, sail := range []float64{5, 20, 40, 70} {
			stbd := m.Evaluate(dynamo.Inputs{WindSpeed: 7, WindDirection: twa, SailAngle: sail}, dynamo.Vec2{Y: 2}, c)
			port := m.Evaluate(dynamo.Inputs{WindSpeed: 7, WindDirection: -twa, SailAngle: sail}, dynamo.Vec2{Y: 2}, c)

			if math.Abs(stbd.AngleOfAttack-port.AngleOfAttack) > 1e-9 {
				t.Errorf("twa %v sail %v: aoa %f vs %f", twa, sail, stbd.AngleOfAttack, port.AngleOfAttack)
			}
			if math.Abs(stbd.ForwardForce-port.ForwardForce) > 1e-6 {
				t.Errorf("twa %v sail %v: forward %f vs %f", twa, sail, stbd.ForwardForce, port.ForwardForce)
			}
			if math.Abs(stbd.ApparentWindAngle+port.ApparentWindAngle) > 1e-9 {
				t.Errorf("twa %v sail %v: awa not mirrored %f vs %f", twa, sail, stbd.ApparentWindAngle, port.ApparentWindAngle)
			}
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()
	in := dynamo.Inputs{WindSpeed: 9, WindDirection: 40, SailAngle: 20, Heading: 350}

	a := m.Evaluate(in, dynamo.Vec2{X: 0.3, Y: 2.1}, c)
	b := m.Evaluate(in, dynamo.Vec2{X: 0.3, Y: 2.1}, c)
	if a != b {
		t.Errorf("expected identical outputs, got %+v and %+v", a, b)
	}
}

func TestEvaluateExtremeInputsStayFinite(t *testing.T) {
	c := dynamo.DefaultConstants()
	m := New()
	rng := rand.New(rand.NewSource(7))

	extremes := []float64{0, -0, 1e-300, -1e-300, 1e6, -1e6, 1e300, -1e300, math.MaxFloat64, -math.MaxFloat64, math.NaN(), math.Inf(1)}
	pick := func() float64 {
		if rng.Intn(2) == 0 {
			return extremes[rng.Intn(len(extremes))]
		}
		return (rng.Float64() - 0.5) * 2000
	}

	for i := 0; i < 5000; i++ {
		in := dynamo.Inputs{WindSpeed: pick(), WindDirection: pick(), SailAngle: pick(), Heading: pick()}
		out := m.Evaluate(in, dynamo.Vec2{X: pick(), Y: pick()}, c)
		for _, v := range []float64{out.ApparentWindSpeed, out.ApparentWindAngle, out.TrueWindAngle, out.AngleOfAttack, out.Lift, out.Drag, out.ForwardForce, out.SideForce} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite output for %+v: %+v", in, out)
			}
		}
		if out.AngleOfAttack < 0 || out.AngleOfAttack > 180 {
			t.Fatalf("aoa %f outside [0,180]", out.AngleOfAttack)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	c := dynamo.DefaultConstants()
	m := New()
	in := dynamo.Inputs{WindSpeed: 6, WindDirection: 60, SailAngle: 30}
	vel := dynamo.Vec2{Y: 2.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Evaluate(in, vel, c)
	}
}
