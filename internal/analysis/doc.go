// Package analysis runs the simulator to answer questions about a boat:
//
//   - [Settle]: how long until the boat reaches steady speed, and at what speed
//   - [Sweep]: settled speed against the polar target across wind angles
//   - [PlotTrack]: an ASCII chart of the ground track of a run
//
// Sweeps run one simulator per wind angle in parallel.
package analysis
