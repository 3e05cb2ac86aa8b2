package aero

import (
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// Curve is the tunable shape of the lift and drag curves between the
// thresholds named in dynamo.Constants.
type Curve struct {
	InducedDrag     float64 // Cd added per Cl^2 while rising
	PlateauLiftDrop float64 // fraction of MaxLiftCoeff lost across the plateau
	PlateauDragRise float64 // Cd added across the plateau
}

func DefaultCurve() Curve {
	return Curve{
		InducedDrag:     0.05,
		PlateauLiftDrop: 0.1,
		PlateauDragRise: 0.1,
	}
}

// flatPlateAOA is where lift is fully lost and drag reaches StallDragCoeff.
const flatPlateAOA = 90.0

// Coefficients is the lift/drag pair for one angle of attack.
type Coefficients struct {
	Lift   float64
	Drag   float64
	Regime dynamo.Regime
}

// RegimeFor selects the band an angle of attack falls in. Luffing caused by
// a floored wind speed is decided by the caller.
func RegimeFor(aoa float64, c dynamo.Constants) dynamo.Regime {
	switch {
	case aoa < c.LuffAOA:
		return dynamo.RegimeLuffing
	case aoa < c.OptimalAOA:
		return dynamo.RegimeRising
	case aoa < c.StallStartAOA:
		return dynamo.RegimePlateau
	default:
		return dynamo.RegimeStalled
	}
}

// Coefficients evaluates the curve at aoa, in degrees folded to [0, 180].
func (cv Curve) Coefficients(aoa float64, c dynamo.Constants) Coefficients {
	r := RegimeFor(aoa, c)
	switch r {
	case dynamo.RegimeLuffing:
		return Coefficients{Regime: r}
	case dynamo.RegimeRising:
		cl, cd := cv.rising(aoa, c)
		return Coefficients{Lift: cl, Drag: cd, Regime: r}
	case dynamo.RegimePlateau:
		cl, cd := cv.plateau(aoa, c)
		return Coefficients{Lift: cl, Drag: cd, Regime: r}
	default:
		cl, cd := cv.stalled(aoa, c)
		return Coefficients{Lift: cl, Drag: cd, Regime: r}
	}
}

func (cv Curve) rising(aoa float64, c dynamo.Constants) (float64, float64) {
	cl := c.MaxLiftCoeff * aoa / c.OptimalAOA
	return cl, c.MinDragCoeff + cv.InducedDrag*cl*cl
}

func (cv Curve) plateau(aoa float64, c dynamo.Constants) (float64, float64) {
	clOpt, cdOpt := cv.AtOptimal(c)
	p := (aoa - c.OptimalAOA) / (c.StallStartAOA - c.OptimalAOA)
	return lerp(clOpt, clOpt*(1-cv.PlateauLiftDrop), p), cdOpt + cv.PlateauDragRise*p
}

func (cv Curve) stalled(aoa float64, c dynamo.Constants) (float64, float64) {
	clStall, cdStall := cv.AtStallOnset(c)
	p := (aoa - c.StallStartAOA) / (flatPlateAOA - c.StallStartAOA)
	p = dynamo.Clamp(p, 0, 1)
	cd := lerp(cdStall, math.Max(c.StallDragCoeff, cdStall), p)
	return lerp(clStall, 0, p), cd
}

// AtOptimal is the boundary value between the rising and plateau regimes.
func (cv Curve) AtOptimal(c dynamo.Constants) (lift, drag float64) {
	lift = c.MaxLiftCoeff
	return lift, c.MinDragCoeff + cv.InducedDrag*lift*lift
}

// AtStallOnset is the boundary value between the plateau and stalled regimes.
func (cv Curve) AtStallOnset(c dynamo.Constants) (lift, drag float64) {
	clOpt, cdOpt := cv.AtOptimal(c)
	return clOpt * (1 - cv.PlateauLiftDrop), cdOpt + cv.PlateauDragRise
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
