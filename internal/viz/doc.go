// Package viz renders flights in the terminal.
//
// Plain output is one status line per step, in the same layout the
// designer has always printed:
//
//	00:12:30  |  14.21Ah  |  94.73%  |  4633.1 W total draw  |  ...
//
// [Model] is a Bubble Tea program that flies a drone live, with a top view
// of the airframe drawn on a braille [Canvas] and an asciigraph chart of the
// bank charge.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Recharge, refuel and restart
//	+/-   - Change simulation speed
//	T     - Cycle color themes
//	Q     - Quit
package viz
