// Package analysis consumes precomputed fields: it integrates test-particle
// trajectories, scans the metric for curvature spikes and characterizes the
// resulting orbits.
//
//   - [IntegrateTrajectory]: adaptive ODE integration through a gravitational field
//   - [ScanCurvature]: heuristic thresholding of a finite-difference Ricci tensor
//   - [PowerSpectrum]: frequency content of a trajectory coordinate
//   - [LyapunovExponent]: divergence rate of two nearby test particles
//   - [Project]: 2D projection of a trajectory, rendered with [ProjectionToASCII]
//
// None of these are physically validated; the curvature scan in particular
// is a threshold heuristic, not a horizon finder.
package analysis
