// Package physics derives the fields of the gravity pipeline on a cubic
// grid and provides the test-particle dynamics used for trajectories.
//
// The three field stages are methods on [Computer]:
//
//   - [Computer.StressEnergy]: matter density, pressure and velocity to T
//   - [Computer.Metric]: gravitational field and T to the metric
//   - [Computer.Gravity]: metric and T to the gravitational field
//
// Each stage is a pure function of its inputs and is evaluated in parallel
// over independent grid points; the output does not depend on the worker
// count.
//
// [Matter] bundles the three matter fields and the preset constructors
// ([Vacuum], [Dust], [Gaussian], [Rotating], [Shell]) used by the CLI.
//
// [TestParticle] implements [dynamo.System] for a point mass moving through
// a precomputed gravitational field with nearest-grid-point lookup.
package physics
