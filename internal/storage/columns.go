package storage

import (
	"strconv"

	"github.com/san-kum/sailsim/internal/dynamo"
)

type column struct {
	name string
	get  func(s *dynamo.State) float64
	set  func(s *dynamo.State, v float64)
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// columns is the states.csv layout, one row per snapshot.
var columns = []column{
	{"time", func(s *dynamo.State) float64 { return s.Time }, func(s *dynamo.State, v float64) { s.Time = v }},
	{"wind_speed", func(s *dynamo.State) float64 { return s.WindSpeed }, func(s *dynamo.State, v float64) { s.WindSpeed = v }},
	{"wind_direction", func(s *dynamo.State) float64 { return s.WindDirection }, func(s *dynamo.State, v float64) { s.WindDirection = v }},
	{"sail_angle", func(s *dynamo.State) float64 { return s.SailAngle }, func(s *dynamo.State, v float64) { s.SailAngle = v }},
	{"heading", func(s *dynamo.State) float64 { return s.Heading }, func(s *dynamo.State, v float64) { s.Heading = v }},
	{"aws", func(s *dynamo.State) float64 { return s.ApparentWindSpeed }, func(s *dynamo.State, v float64) { s.ApparentWindSpeed = v }},
	{"awa", func(s *dynamo.State) float64 { return s.ApparentWindAngle }, func(s *dynamo.State, v float64) { s.ApparentWindAngle = v }},
	{"twa", func(s *dynamo.State) float64 { return s.TrueWindAngle }, func(s *dynamo.State, v float64) { s.TrueWindAngle = v }},
	{"aoa", func(s *dynamo.State) float64 { return s.AngleOfAttack }, func(s *dynamo.State, v float64) { s.AngleOfAttack = v }},
	{"cl", func(s *dynamo.State) float64 { return s.LiftCoeff }, func(s *dynamo.State, v float64) { s.LiftCoeff = v }},
	{"cd", func(s *dynamo.State) float64 { return s.DragCoeff }, func(s *dynamo.State, v float64) { s.DragCoeff = v }},
	{"forward_force", func(s *dynamo.State) float64 { return s.ForwardForce }, func(s *dynamo.State, v float64) { s.ForwardForce = v }},
	{"side_force", func(s *dynamo.State) float64 { return s.SideForce }, func(s *dynamo.State, v float64) { s.SideForce = v }},
	{"boat_speed", func(s *dynamo.State) float64 { return s.BoatSpeed }, func(s *dynamo.State, v float64) { s.BoatSpeed = v }},
	{"heel", func(s *dynamo.State) float64 { return s.HeelAngle }, func(s *dynamo.State, v float64) { s.HeelAngle = v }},
	{"x", func(s *dynamo.State) float64 { return s.X }, func(s *dynamo.State, v float64) { s.X = v }},
	{"y", func(s *dynamo.State) float64 { return s.Y }, func(s *dynamo.State, v float64) { s.Y = v }},
	{"efficiency", func(s *dynamo.State) float64 { return s.Efficiency }, func(s *dynamo.State, v float64) { s.Efficiency = v }},
	{"luffing", func(s *dynamo.State) float64 { return boolFloat(s.IsLuffing) }, func(s *dynamo.State, v float64) { s.IsLuffing = v != 0 }},
	{"stalled", func(s *dynamo.State) float64 { return boolFloat(s.IsStalled) }, func(s *dynamo.State, v float64) { s.IsStalled = v != 0 }},
	{"regime", func(s *dynamo.State) float64 { return float64(s.Regime) }, func(s *dynamo.State, v float64) { s.Regime = dynamo.Regime(v) }},
}

// Header returns the CSV column names.
func Header() []string {
	h := make([]string, len(columns))
	for i, c := range columns {
		h[i] = c.name
	}
	return h
}

func encodeRow(s dynamo.State) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = strconv.FormatFloat(c.get(&s), 'g', -1, 64)
	}
	return row
}
