// Package control provides sail trimmers.
//
// A trimmer implements [dynamo.Trimmer]: given the latest snapshot it
// returns the sail angle for the next tick.
//
//   - [Manual]: holds a fixed sail angle
//   - [Hold]: leaves the sail wherever the user put it
//   - [Feedforward]: sets the sail straight from the apparent wind angle
//   - [AutoTrim]: PID on angle of attack with a rate-limited sheet
//
// # Usage
//
//	trim := control.NewAutoTrim(control.DefaultAutoTrimGains(), c.OptimalAOA)
//	res, err := s.Run(ctx, sim.RunConfig{Duration: 60, Trimmer: trim})
//
// AutoTrim implements [Tunable] for live adjustment of its gains.
package control
