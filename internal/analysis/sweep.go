package analysis

import (
	"context"
	"math"

	"github.com/san-kum/sailsim/internal/control"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
)

// SweepPoint compares the simulated boat with the polar at one angle.
type SweepPoint struct {
	TWA     float64 // deg
	Sail    float64 // deg, where the trimmer left it
	Speed   float64 // kn, settled
	Target  float64 // kn, polar
	Ratio   float64 // Speed / Target, unclamped
	Settled bool
}

type SweepConfig struct {
	WindSpeed float64 // kn
	Angles    []float64
	Settle    SettleConfig
	// NewTrimmer builds a fresh trimmer per angle. Nil uses Feedforward at
	// the optimal angle of attack.
	NewTrimmer func() dynamo.Trimmer
}

// Sweep settles one simulator per angle, spread over all CPUs. Results are
// in the order of cfg.Angles.
func Sweep(ctx context.Context, c dynamo.Constants, ip *polar.Interpolator, cfg SweepConfig) ([]SweepPoint, error) {
	points := make([]SweepPoint, len(cfg.Angles))
	errs := make([]error, len(cfg.Angles))
	tws := dynamo.MetresPerSecond(cfg.WindSpeed)

	dynamo.ParallelFor(len(cfg.Angles), 1, func(startIdx, endIdx int) {
		for i := startIdx; i < endIdx; i++ {
			twa := cfg.Angles[i]
			s := sim.New(c, dynamo.Inputs{
				WindSpeed:     tws,
				WindDirection: twa,
				SailAngle:     dynamo.Clamp(math.Abs(dynamo.Wrap180(twa))-c.OptimalAOA, 0, control.MaxSailAngle),
			})

			settle := cfg.Settle
			if cfg.NewTrimmer != nil {
				settle.Trimmer = cfg.NewTrimmer()
			} else {
				settle.Trimmer = &control.Feedforward{TargetAOA: c.OptimalAOA}
			}

			eq, err := Settle(ctx, s, settle)
			if err != nil {
				errs[i] = err
				continue
			}

			p := SweepPoint{
				TWA:     twa,
				Sail:    eq.State.SailAngle,
				Speed:   dynamo.Knots(eq.State.BoatSpeed),
				Target:  ip.SpeedFor(cfg.WindSpeed, twa),
				Settled: eq.Settled,
			}
			if p.Target > 0 {
				p.Ratio = p.Speed / p.Target
			}
			points[i] = p
		}
	})

	for _, err := range errs {
		if err != nil {
			return points, err
		}
	}
	return points, nil
}

// MinAngleStep and MaxAngles bound the size of a sweep.
const (
	MinAngleStep = 0.1
	MaxAngles    = 3600
)

// Angles returns from, from+step, ... up to and including to. Steps finer
// than MinAngleStep are raised to it and the list stops at MaxAngles.
func Angles(from, to, step float64) []float64 {
	if !(step > 0) || !(to >= from) || math.IsInf(to-from, 0) {
		return []float64{from}
	}
	step = math.Max(step, MinAngleStep)
	n := int(math.Min((to-from)/step, MaxAngles-1)) + 1
	out := make([]float64, 0, n)
	for k := 0; k < n; k++ {
		a := from + float64(k)*step
		if a > to+1e-9 {
			break
		}
		out = append(out, a)
	}
	return out
}
