package sim

import (
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// Ticker is satisfied by Simulator and Guarded.
type Ticker interface {
	Tick() dynamo.State
	State() dynamo.State
}

// Accumulator turns variable frame times into a whole number of fixed
// ticks, carrying the remainder to the next frame.
type Accumulator struct {
	dt       float64
	maxTicks int
	carry    float64
}

// NewAccumulator caps a single frame at maxTicks ticks. Time beyond the cap
// is dropped so a stalled frame cannot snowball.
func NewAccumulator(dt float64, maxTicks int) *Accumulator {
	if maxTicks < 1 {
		maxTicks = 1
	}
	return &Accumulator{dt: dt, maxTicks: maxTicks}
}

// Advance adds frame seconds and reports how many ticks are due.
func (a *Accumulator) Advance(frame float64) int {
	if !(frame > 0) || math.IsInf(frame, 0) || !(a.dt > 0) {
		return 0
	}
	a.carry += frame
	n := int(a.carry / a.dt)
	if n > a.maxTicks {
		a.carry = 0
		return a.maxTicks
	}
	a.carry -= float64(n) * a.dt
	return n
}

// Alpha is the fraction of a tick left over, for render interpolation.
func (a *Accumulator) Alpha() float64 {
	if !(a.dt > 0) {
		return 0
	}
	return a.carry / a.dt
}

// Drive ticks s once per due tick and returns the latest snapshot.
func (a *Accumulator) Drive(s Ticker, frame float64) dynamo.State {
	n := a.Advance(frame)
	if n == 0 {
		return s.State()
	}
	var st dynamo.State
	for i := 0; i < n; i++ {
		st = s.Tick()
	}
	return st
}
