package analysis

import (
	"context"
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/sim"
)

// SettleConfig decides when a boat counts as settled: its acceleration has
// stayed under Tolerance for Hold seconds.
type SettleConfig struct {
	Tolerance float64 // m/s^2
	Hold      float64 // s
	MaxTime   float64 // s
	Trimmer   dynamo.Trimmer
}

func DefaultSettleConfig() SettleConfig {
	return SettleConfig{Tolerance: 1e-3, Hold: 2, MaxTime: 300}
}

// Equilibrium is where a settle run ended.
type Equilibrium struct {
	State   dynamo.State
	Ticks   int
	Time    float64 // s from the start of the settle run
	Settled bool
}

// Settle ticks s until it is steady or MaxTime passes. Inputs are left as
// the trimmer set them.
func Settle(ctx context.Context, s *sim.Simulator, cfg SettleConfig) (Equilibrium, error) {
	dt := s.Constants().DT
	prev := s.State()
	start := prev.Time
	calm := 0.0

	var eq Equilibrium
	for eq.Time < cfg.MaxTime {
		select {
		case <-ctx.Done():
			return eq, ctx.Err()
		default:
		}

		if cfg.Trimmer != nil {
			s.SetSailAngle(cfg.Trimmer.Trim(prev, prev.Time-start))
		}
		st := s.Tick()
		eq.Ticks++
		eq.Time = st.Time - start
		eq.State = st

		if math.Abs(st.BoatSpeed-prev.BoatSpeed)/dt < cfg.Tolerance {
			calm += dt
		} else {
			calm = 0
		}
		prev = st

		if calm >= cfg.Hold {
			eq.Settled = true
			break
		}
	}

	return eq, nil
}
