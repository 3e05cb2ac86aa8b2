// Package dynamo provides the core primitives shared by the sail simulation.
//
// The package defines the value types every other package passes around:
//
//   - [Constants]: immutable environment and boat parameters
//   - [Inputs]: the control inputs written by the UI or a test harness
//   - [State]: one snapshot of inputs, derived wind, forces and motion
//   - [Vec2]: horizontal-plane vectors in (east, north) metres
//
// Angles are degrees throughout. Bearings are compass style: 0 is north and
// angles grow clockwise. Wind direction is the bearing the wind blows from.
//
// # Example
//
//	c := dynamo.DefaultConstants()
//	if err := c.Validate(); err != nil {
//	    return err
//	}
//	s := sim.New(c, dynamo.Inputs{WindSpeed: 6, WindDirection: 90, SailAngle: 45})
//	snap := s.Tick()
//
// # Thread Safety
//
// All types here are plain values. The simulator that owns the single mutable
// [State] is NOT thread-safe; see sim.Guarded for hosts that step from one
// goroutine and write inputs from another.
package dynamo
