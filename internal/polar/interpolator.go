package polar

import (
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// Interpolator answers bilinear speed lookups over one table.
type Interpolator struct {
	table *Table
}

func NewInterpolator(t *Table) *Interpolator {
	return &Interpolator{table: t}
}

func (ip *Interpolator) Table() *Table { return ip.table }

// SpeedFor returns the target boat speed in knots, rounded to two decimals,
// for a true wind speed in knots and a true wind angle in degrees. Port and
// starboard angles give the same answer.
func (ip *Interpolator) SpeedFor(tws, twa float64) float64 {
	return round2(ip.raw(tws, twa))
}

func (ip *Interpolator) raw(tws, twa float64) float64 {
	t := ip.table
	angle := dynamo.Fold180(twa)

	tws = clampAxis(tws, t.tws)
	angle = clampAxis(angle, t.twa)

	i := bracket(t.tws, tws)
	j := bracket(t.twa, angle)

	ft := fraction(t.tws[i], t.tws[i+1], tws)
	fu := fraction(t.twa[j], t.twa[j+1], angle)

	lo := lerp(t.speeds[i][j], t.speeds[i][j+1], fu)
	hi := lerp(t.speeds[i+1][j], t.speeds[i+1][j+1], fu)
	return lerp(lo, hi, ft)
}

// clampAxis pins v to the axis range; NaN maps to the lowest breakpoint.
func clampAxis(v float64, axis []float64) float64 {
	if math.IsNaN(v) {
		return axis[0]
	}
	return dynamo.Clamp(v, axis[0], axis[len(axis)-1])
}

// bracket finds i with axis[i] <= v <= axis[i+1] by linear scan; tables
// are a dozen entries wide.
func bracket(axis []float64, v float64) int {
	for i := 0; i < len(axis)-2; i++ {
		if v < axis[i+1] {
			return i
		}
	}
	return len(axis) - 2
}

func fraction(a, b, v float64) float64 {
	return dynamo.Clamp((v-a)/(b-a), 0, 1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Point is one sample of a polar curve.
type Point struct {
	Angle float64 // deg
	Speed float64 // kn
}

// MinCurveStep is the finest angle step Curve samples at. Table angles lie
// in [0, 180], so a curve never holds more than 1801 points.
const MinCurveStep = 0.1

// Curve samples SpeedFor at one wind speed from the table's lowest angle to
// its highest in steps of step degrees. Steps finer than MinCurveStep are
// raised to it; a non-positive step means one degree.
func (ip *Interpolator) Curve(tws, step float64) []Point {
	_, _, lo, hi := ip.table.Envelope()
	switch {
	case !(step > 0):
		step = 1
	case step < MinCurveStep:
		step = MinCurveStep
	}
	n := int(math.Floor((hi-lo)/step)) + 1
	pts := make([]Point, 0, n+1)
	for k := 0; k < n; k++ {
		a := lo + float64(k)*step
		pts = append(pts, Point{Angle: a, Speed: ip.SpeedFor(tws, a)})
	}
	if last := pts[len(pts)-1].Angle; last < hi {
		pts = append(pts, Point{Angle: hi, Speed: ip.SpeedFor(tws, hi)})
	}
	return pts
}

// VMG is the best velocity made good towards or away from the wind.
type VMG struct {
	Angle float64 // deg
	Speed float64 // kn through the water
	VMG   float64 // kn along the wind axis
}

// BestVMG scans whole-degree angles inside the table for the best upwind
// and downwind velocity made good at wind speed tws.
func (ip *Interpolator) BestVMG(tws float64) (upwind, downwind VMG) {
	_, _, lo, hi := ip.table.Envelope()
	var bestUp, bestDown float64
	for a := math.Ceil(lo); a <= hi; a++ {
		s := ip.raw(tws, a)
		v := s * math.Cos(dynamo.Radians(a))
		if v > bestUp {
			bestUp = v
			upwind = VMG{Angle: a, Speed: round2(s), VMG: round2(v)}
		}
		if -v > bestDown {
			bestDown = -v
			downwind = VMG{Angle: a, Speed: round2(s), VMG: round2(-v)}
		}
	}
	return upwind, downwind
}
