// Package viz provides terminal rendering for Ising lattices.
//
// The package draws lattices and domain labelings with lipgloss and runs an
// interactive view using the Bubble Tea framework:
//
//   - [RenderLattice]: half-block colour rendering, two rows per line
//   - [RenderBraille]: 2x4 sites per Braille character for large lattices
//   - [RenderDomains]: one palette colour per Weiss domain
//   - [LiveModel]: Metropolis evolution with live observables
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial lattice
//	Up/Dn - Raise/lower temperature
//	D     - Toggle domain view
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// The live view records the lattice as a GIF animation using the G key. The
// recording is written when G is pressed again.
package viz
