// Package viz draws particlebox simulations in the terminal.
//
//   - [Canvas]: braille pixel canvas where each cell keeps a color tint
//   - [DrawState]: container outline and bodies of one card
//   - [Live]: bubbletea view of a [sim.Grid], one focused card or all at once
//   - [Picker]: preset chooser that opens a Live grid
//
// # Key Bindings
//
//	Space - Pause/Resume every card
//	R     - Re-spawn the focused card
//	Tab   - Focus the next card
//	M     - Toggle the grid view
//	[ ]   - Select a parameter, Up/Down to change it
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// A recording rasterizes the focused canvas every frame and is written as a
// GIF to LiveOptions.GIFPath when recording stops or the view quits.
package viz
