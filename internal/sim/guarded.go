package sim

import (
	"sync"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// Guarded serialises access to a Simulator for hosts that tick on one
// goroutine and change inputs from others.
type Guarded struct {
	mu  sync.RWMutex
	sim *Simulator
}

func NewGuarded(s *Simulator) *Guarded {
	return &Guarded{sim: s}
}

func (g *Guarded) Step(dt float64) dynamo.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sim.Step(dt)
}

func (g *Guarded) Tick() dynamo.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sim.Tick()
}

func (g *Guarded) Reset() {
	g.mu.Lock()
	g.sim.Reset()
	g.mu.Unlock()
}

func (g *Guarded) State() dynamo.State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sim.State()
}

func (g *Guarded) Constants() dynamo.Constants { return g.sim.Constants() }

// Update applies fn to the inputs atomically and returns the new inputs.
func (g *Guarded) Update(fn func(in *dynamo.Inputs)) dynamo.Inputs {
	g.mu.Lock()
	defer g.mu.Unlock()
	in := g.sim.State().Inputs
	fn(&in)
	g.sim.SetInputs(in)
	return g.sim.State().Inputs
}

func (g *Guarded) SetSailAngle(deg float64) {
	g.Update(func(in *dynamo.Inputs) { in.SailAngle = deg })
}

func (g *Guarded) SetWindDirection(deg float64) {
	g.Update(func(in *dynamo.Inputs) { in.WindDirection = deg })
}

func (g *Guarded) SetWindSpeed(ms float64) {
	g.Update(func(in *dynamo.Inputs) { in.WindSpeed = ms })
}

func (g *Guarded) SetHeading(deg float64) {
	g.Update(func(in *dynamo.Inputs) { in.Heading = deg })
}
