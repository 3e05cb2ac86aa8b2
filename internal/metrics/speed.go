package metrics

import (
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// AvgSpeed is the mean boat speed in m/s.
type AvgSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewAvgSpeed() *AvgSpeed {
	return &AvgSpeed{name: "avg_speed"}
}

func (a *AvgSpeed) Name() string { return a.name }

func (a *AvgSpeed) Observe(s dynamo.State) {
	a.sum += s.BoatSpeed
	a.samples++
}

func (a *AvgSpeed) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AvgSpeed) Reset() {
	a.sum = 0
	a.samples = 0
}

// AvgEfficiency is the mean of State.Efficiency.
type AvgEfficiency struct {
	name    string
	sum     float64
	samples int
}

func NewAvgEfficiency() *AvgEfficiency {
	return &AvgEfficiency{name: "avg_efficiency"}
}

func (a *AvgEfficiency) Name() string { return a.name }

func (a *AvgEfficiency) Observe(s dynamo.State) {
	a.sum += s.Efficiency
	a.samples++
}

func (a *AvgEfficiency) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AvgEfficiency) Reset() {
	a.sum = 0
	a.samples = 0
}

// MaxHeel is the largest heel seen on either side, in degrees.
type MaxHeel struct {
	name string
	max  float64
}

func NewMaxHeel() *MaxHeel {
	return &MaxHeel{name: "max_heel"}
}

func (m *MaxHeel) Name() string { return m.name }

func (m *MaxHeel) Observe(s dynamo.State) {
	m.max = math.Max(m.max, math.Abs(s.HeelAngle))
}

func (m *MaxHeel) Value() float64 { return m.max }

func (m *MaxHeel) Reset() { m.max = 0 }
