package control

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// MaxSailAngle is fully eased, the boom square to the centreline.
const MaxSailAngle = 90.0

// Tunable is implemented by trimmers whose parameters can change live.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

// Manual holds the sail at Angle.
type Manual struct {
	Angle float64
}

func NewManual(angle float64) *Manual {
	return &Manual{Angle: angle}
}

func (m *Manual) Trim(s dynamo.State, t float64) float64 { return m.Angle }

// Hold never touches the sail.
type Hold struct{}

func (Hold) Trim(s dynamo.State, t float64) float64 { return s.SailAngle }

// Feedforward places the sail TargetAOA degrees inside the apparent wind.
// It reacts instantly and ignores the resulting flow.
type Feedforward struct {
	TargetAOA float64
}

func (f *Feedforward) Trim(s dynamo.State, t float64) float64 {
	return dynamo.Clamp(math.Abs(s.ApparentWindAngle)-f.TargetAOA, 0, MaxSailAngle)
}

// Gains configures AutoTrim.
type Gains struct {
	Kp      float64 // deg/s per deg of AOA error
	Ki      float64
	Kd      float64
	MaxRate float64 // deg/s the sheet can move
}

func DefaultAutoTrimGains() Gains {
	return Gains{Kp: 2, Ki: 0.2, Kd: 0, MaxRate: 30}
}

// AutoTrim eases or sheets the sail to hold the angle of attack at a
// target. Attack is measured as |AWA| - |sail|, so an over-eased,
// back-winded sail reads negative and gets sheeted in.
type AutoTrim struct {
	pid     *PID
	maxRate float64
	prevT   float64
	started bool
}

func NewAutoTrim(g Gains, targetAOA float64) *AutoTrim {
	pid := NewPID(g.Kp, g.Ki, g.Kd, targetAOA)
	pid.IntegralLimit = 50
	return &AutoTrim{pid: pid, maxRate: g.MaxRate}
}

func (a *AutoTrim) Trim(s dynamo.State, t float64) float64 {
	sail := math.Abs(s.SailAngle)
	attack := math.Abs(s.ApparentWindAngle) - sail

	rate := a.pid.Update(attack, t)
	if a.maxRate > 0 {
		rate = dynamo.Clamp(rate, -a.maxRate, a.maxRate)
	}

	if !a.started {
		a.started = true
		a.prevT = t
		return dynamo.Clamp(sail, 0, MaxSailAngle)
	}
	dt := t - a.prevT
	a.prevT = t
	if dt <= 0 {
		return dynamo.Clamp(sail, 0, MaxSailAngle)
	}
	// positive output wants more attack: sheet in
	return dynamo.Clamp(sail-rate*dt, 0, MaxSailAngle)
}

func (a *AutoTrim) Reset() {
	a.pid.Reset()
	a.started = false
}

func (a *AutoTrim) GetParams() map[string]float64 {
	p := a.pid.GetParams()
	p["MaxRate"] = a.maxRate
	return p
}

func (a *AutoTrim) SetParam(name string, value float64) {
	if name == "MaxRate" {
		a.maxRate = value
		return
	}
	a.pid.SetParam(name, value)
}

// Names lists the trimmers New accepts.
func Names() []string {
	names := []string{"manual", "hold", "feedforward", "auto"}
	sort.Strings(names)
	return names
}

// New builds a trimmer by name. sail is used by manual, targetAOA by
// feedforward and auto.
func New(name string, sail, targetAOA float64) (dynamo.Trimmer, error) {
	switch name {
	case "manual":
		return NewManual(sail), nil
	case "hold", "":
		return Hold{}, nil
	case "feedforward":
		return &Feedforward{TargetAOA: targetAOA}, nil
	case "auto":
		return NewAutoTrim(DefaultAutoTrimGains(), targetAOA), nil
	default:
		return nil, fmt.Errorf("unknown trimmer: %s (available: %v)", name, Names())
	}
}
