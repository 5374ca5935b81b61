// Package viz provides the terminal live view of a running rig.
//
// The view is a Bubble Tea program that ticks a locomotor with the real time
// between frames, so the rig sees the same irregular delta times a game host
// would give it:
//
//   - [Model]: live view of one simulator, top-down or orbiting camera
//   - [Canvas]: Braille pixel canvas the rig is drawn on
//   - [RunInteractive]: preset menu in front of the live view
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart the rig
//	+/-   - Scale time
//	V     - Toggle top-down and orbit views
//	F     - Follow the body
//	T     - Cycle color themes
//	[]    - Step through recent frames
//	?     - Show help overlay
package viz
