// Package viz draws running scenarios in the terminal.
//
//   - [Model]: Bubble Tea program that ticks a [dynamo.Ticker] at 60 Hz
//   - [Picker]: scenario menu that launches a Model
//   - [Canvas]: Braille canvas with a world-space [Viewport]
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	.       - Single step while paused
//	R       - Rebuild the scenario
//	Tab     - Cycle tunable parameters
//	Up/Down - Adjust the selected parameter by 5%
//	WASD    - Move the pointer (scenarios that react to one)
//	Mouse   - Move the pointer to the cursor
//	C       - Clear the pointer
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
