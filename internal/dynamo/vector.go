package dynamo

import "math"

// Vec2 is a horizontal-plane vector, X east and Y north.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec2) Equal(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// FromBearing builds a vector of the given magnitude pointing along a compass
// bearing in degrees.
func FromBearing(bearing, magnitude float64) Vec2 {
	sin, cos := math.Sincos(Radians(bearing))
	return Vec2{X: magnitude * sin, Y: magnitude * cos}
}

// Bearing is the compass bearing the vector points to, in [0, 360).
func (v Vec2) Bearing() float64 {
	if v.IsZero() {
		return 0
	}
	return Wrap360(Degrees(math.Atan2(v.X, v.Y)))
}

func Radians(deg float64) float64 { return deg / 180 * math.Pi }
func Degrees(rad float64) float64 { return rad / math.Pi * 180 }

// Wrap360 maps an angle into [0, 360).
func Wrap360(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// Wrap180 maps an angle into (-180, 180].
func Wrap180(deg float64) float64 {
	a := Wrap360(deg)
	if a > 180 {
		a -= 360
	}
	return a
}

// Fold180 maps an angle onto [0, 180], the unsigned angular distance from 0.
func Fold180(deg float64) float64 {
	return math.Abs(Wrap180(deg))
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
