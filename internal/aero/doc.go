// Package aero computes sail lift and drag from apparent wind.
//
// The lift/drag curve is split into named regimes selected by angle of
// attack against dynamo.Constants thresholds:
//
//   - luffing: below LuffAOA, or apparent wind at its floor; no force
//   - pre-stall-rising: [LuffAOA, OptimalAOA), lift climbs to MaxLiftCoeff
//   - plateau: [OptimalAOA, StallStartAOA), the efficient trim band
//   - stalled: StallStartAOA and above, lift decays towards a flat plate
//
// Each regime boundary has an explicit value ([Curve.AtOptimal],
// [Curve.AtStallOnset]) so the transitions can be tested on their own.
package aero
