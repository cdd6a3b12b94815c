// Package viz is a terminal host for a flock, built on Bubble Tea.
//
//   - [Model]: live view stepping one flock per tick against a target the
//     user steers
//   - [Menu]: profile picker that launches a live view
//   - [Canvas]: Braille-based pixel canvas
//   - [PlotSeries]: asciigraph chart of a metric series
//
// # Key Bindings
//
//	Arrows - Move the target
//	Space  - Pause/Resume simulation
//	X      - Shoot the agent nearest the target
//	A      - Toggle autopilot (target follows the configured path)
//	Tab    - Cycle flock parameters
//	+/-    - Scale the selected parameter by 5%
//	R      - Reset to the spawned flock
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	?      - Show help overlay
//
// # Recording
//
// Frames captured while recording are written to boidsim.gif in the current
// directory when recording stops.
package viz
