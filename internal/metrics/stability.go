package metrics

import "github.com/san-kum/sailsim/internal/dynamo"

// TrimQuality is the fraction of ticks where the sail was drawing, neither
// stalled nor luffing.
type TrimQuality struct {
	name       string
	violations int
	samples    int
}

func NewTrimQuality() *TrimQuality {
	return &TrimQuality{name: "trim_quality"}
}

func (q *TrimQuality) Name() string {
	return q.name
}

func (q *TrimQuality) Observe(s dynamo.State) {
	q.samples++
	if s.IsStalled || s.IsLuffing {
		q.violations++
	}
}

func (q *TrimQuality) Value() float64 {
	if q.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(q.violations)/float64(q.samples)
}

func (q *TrimQuality) Reset() {
	q.violations = 0
	q.samples = 0
}
