// Package dynamo provides the shared primitives used by the field pipeline
// and the trajectory integrator.
//
// The package defines:
//
//   - [State]: flat state vector of an ODE system
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, t))
//   - [Integrator] and [AdaptiveIntegrator]: numerical steppers
//   - [ParallelFor]: chunked fan-out over independent grid points
//   - the sentinel errors shared across packages
//
// # Thread Safety
//
// Integrators hold scratch buffers and are NOT safe for concurrent use.
// [ParallelFor] callbacks must only write to disjoint index ranges.
package dynamo
