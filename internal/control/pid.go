package control

import "github.com/san-kum/sailsim/internal/dynamo"

// PID is a scalar PID loop on a measured angle. Update is driven by the
// caller's clock, so the same loop works at any tick rate.
type PID struct {
	Kp, Ki, Kd float64
	Target     float64
	// IntegralLimit bounds the accumulated integral; zero means unbounded.
	IntegralLimit float64

	integral float64
	lastErr  float64
	lastT    float64
	primed   bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target}
}

// Update returns the control output for a measurement taken at time t. The
// first sample and any sample that does not advance t are proportional only.
func (p *PID) Update(measured, t float64) float64 {
	e := p.Target - measured
	u := p.Kp * e

	if !p.primed {
		p.primed = true
		p.lastErr, p.lastT = e, t
		return u
	}

	dt := t - p.lastT
	if dt <= 0 {
		return u
	}

	p.integral += e * dt
	if p.IntegralLimit > 0 {
		p.integral = dynamo.Clamp(p.integral, -p.IntegralLimit, p.IntegralLimit)
	}
	u += p.Ki*p.integral + p.Kd*(e-p.lastErr)/dt

	p.lastErr, p.lastT = e, t
	return u
}

func (p *PID) Reset() {
	*p = PID{Kp: p.Kp, Ki: p.Ki, Kd: p.Kd, Target: p.Target, IntegralLimit: p.IntegralLimit}
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":            p.Kp,
		"Ki":            p.Ki,
		"Kd":            p.Kd,
		"Target":        p.Target,
		"IntegralLimit": p.IntegralLimit,
	}
}

// SetParam adjusts one gain by the name GetParams reports. Unknown names
// are ignored.
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	case "IntegralLimit":
		p.IntegralLimit = value
	}
}
