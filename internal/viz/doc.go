// Package viz is the terminal trim trainer built on Bubble Tea.
//
// [Model] steps a sim.Simulator at the configured tick rate from frame
// timer messages and draws a top-down braille [Scene] of the hull, sail and
// wind next to a panel of apparent wind, angle of attack, regime and
// efficiency. Boat speed and the polar target are plotted underneath.
// [Picker] lists the scenario presets and opens one in a Model.
//
// # Key Bindings
//
//	←/→   - Sheet in / ease the sail
//	↑/↓   - Steer
//	w/s   - True wind speed
//	,/.   - True wind direction
//	a     - Toggle auto-trim
//	[/]   - Replay recorded history
//	Space - Pause/Resume
//	R     - Reset outputs, keeping the inputs
//	T     - Cycle colour themes
//	?     - Help overlay
package viz
