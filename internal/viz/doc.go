// Package viz renders simulation output in the terminal.
//
//   - [Browser]: Bubble Tea viewer for a stored gravitational field, one
//     z-slice at a time, with a 3D view of the run's orbit
//   - [Canvas]: braille pixel canvas used by the 3D view
//   - [PlotSeries], [PlotTrajectory], [PlotSpectrum]: asciigraph charts
//   - [Table], [ConfusionTable]: lipgloss tables
//
// # Browser keys
//
//	j/k - previous/next slice (rotate in orbit view)
//	c   - cycle |G|, Gx, Gy, Gz
//	t   - cycle color themes
//	tab - switch between slice and orbit view
//	q   - quit
package viz
