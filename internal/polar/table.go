package polar

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTooFewBreakpoints = errors.New("polar: axis needs at least two breakpoints")
	ErrNotAscending      = errors.New("polar: breakpoints not strictly ascending")
	ErrShapeMismatch     = errors.New("polar: speed grid does not match axes")
	ErrAngleRange        = errors.New("polar: wind angle outside [0, 180]")
	ErrBadSpeed          = errors.New("polar: speed negative or non-finite")
)

// Table is a validated polar grid. Its slices are private copies and are
// never modified after construction.
type Table struct {
	name    string
	version string
	tws     []float64
	twa     []float64
	speeds  [][]float64
}

// NewTable validates and copies the given axes and grid. speeds is indexed
// [wind speed][wind angle].
func NewTable(name, version string, tws, twa []float64, speeds [][]float64) (*Table, error) {
	if err := checkAxis("tws", tws); err != nil {
		return nil, err
	}
	if err := checkAxis("twa", twa); err != nil {
		return nil, err
	}
	if tws[0] < 0 {
		return nil, fmt.Errorf("tws[0]=%g: %w", tws[0], ErrBadSpeed)
	}
	if twa[0] < 0 || twa[len(twa)-1] > 180 {
		return nil, fmt.Errorf("twa spans [%g, %g]: %w", twa[0], twa[len(twa)-1], ErrAngleRange)
	}
	if len(speeds) != len(tws) {
		return nil, fmt.Errorf("%d rows for %d wind speeds: %w", len(speeds), len(tws), ErrShapeMismatch)
	}

	t := &Table{
		name:    name,
		version: version,
		tws:     append([]float64(nil), tws...),
		twa:     append([]float64(nil), twa...),
		speeds:  make([][]float64, len(speeds)),
	}
	for i, row := range speeds {
		if len(row) != len(twa) {
			return nil, fmt.Errorf("row %d (tws=%g) has %d columns for %d angles: %w", i, tws[i], len(row), len(twa), ErrShapeMismatch)
		}
		for j, v := range row {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("speed at tws=%g twa=%g is %g: %w", tws[i], twa[j], v, ErrBadSpeed)
			}
		}
		t.speeds[i] = append([]float64(nil), row...)
	}
	return t, nil
}

func checkAxis(name string, axis []float64) error {
	if len(axis) < 2 {
		return fmt.Errorf("%s has %d: %w", name, len(axis), ErrTooFewBreakpoints)
	}
	for i, v := range axis {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s[%d]=%g: %w", name, i, v, ErrNotAscending)
		}
		if i > 0 && v <= axis[i-1] {
			return fmt.Errorf("%s[%d]=%g after %g: %w", name, i, v, axis[i-1], ErrNotAscending)
		}
	}
	return nil
}

func mustTable(name, version string, tws, twa []float64, speeds [][]float64) *Table {
	t, err := NewTable(name, version, tws, twa, speeds)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Name() string    { return t.name }
func (t *Table) Version() string { return t.version }

// WindSpeeds returns a copy of the wind speed axis.
func (t *Table) WindSpeeds() []float64 { return append([]float64(nil), t.tws...) }

// WindAngles returns a copy of the wind angle axis.
func (t *Table) WindAngles() []float64 { return append([]float64(nil), t.twa...) }

// At returns the recorded speed at grid indices (i, j).
func (t *Table) At(i, j int) float64 { return t.speeds[i][j] }

// Envelope reports the table bounds.
func (t *Table) Envelope() (minTWS, maxTWS, minTWA, maxTWA float64) {
	return t.tws[0], t.tws[len(t.tws)-1], t.twa[0], t.twa[len(t.twa)-1]
}

func (t *Table) String() string {
	return fmt.Sprintf("%s@%s (%dx%d)", t.name, t.version, len(t.tws), len(t.twa))
}
