// Package api serves the simulator over HTTP.
//
// A background loop steps a shared sim.Guarded at the configured tick rate
// while handlers read snapshots and write control inputs:
//
//	GET  /healthz
//	GET  /api/polar/tables
//	GET  /api/polar/speed?table=&tws=&twa=
//	GET  /api/sim/state
//	PUT  /api/sim/controls
//	POST /api/sim/reset
//
// Errors are JSON bodies of the form {"error": "..."}.
package api
