// Package polar provides velocity-prediction tables and their lookup.
//
// A [Table] is an immutable grid of target boat speeds in knots indexed by
// true wind speed (knots) and true wind angle (degrees, 0-180). Tables are
// validated once by [NewTable] or [LoadTable]; an [Interpolator] then
// answers [Interpolator.SpeedFor] without further checks.
//
// # Edge policy
//
// Inputs outside the table envelope are clamped to the nearest row or
// column, never extrapolated. In particular a table whose first angle is
// 45 degrees reports the 45 degree speed for any closer angle; the model
// has no "in irons" collapse unless the table itself encodes one.
//
// # Example
//
//	ip := polar.NewInterpolator(polar.Dinghy())
//	target := ip.SpeedFor(12, 90) // knots
//
// Tables and interpolators are safe for concurrent use.
package polar
