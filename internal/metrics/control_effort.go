package metrics

import (
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// SailWork is the mean sheet movement per tick in degrees.
type SailWork struct {
	name    string
	sum     float64
	prev    float64
	samples int
}

func NewSailWork() *SailWork {
	return &SailWork{
		name: "sail_work",
	}
}

func (w *SailWork) Name() string {
	return w.name
}

func (w *SailWork) Observe(s dynamo.State) {
	sail := math.Abs(s.SailAngle)
	if w.samples > 0 {
		w.sum += math.Abs(sail - w.prev)
	}
	w.prev = sail
	w.samples++
}

func (w *SailWork) Value() float64 {
	if w.samples < 2 {
		return 0
	}
	return w.sum / float64(w.samples-1)
}

func (w *SailWork) Reset() {
	w.sum = 0
	w.prev = 0
	w.samples = 0
}
