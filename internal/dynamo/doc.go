// Package dynamo provides the core primitives shared by the estimators and
// the sample generators.
//
// The package defines:
//
//   - [State]: one point of a state space
//   - [StateSpaceSet]: an ordered, fixed-dimension, read-only set of points
//   - [System]: continuous-time flows (dX/dt = f(X, t))
//   - [Map]: discrete-time maps (X' = f(X))
//   - [Integrator]: numerical stepper for a [System]
//   - [Trajectory], [Iterate]: sample a set from a flow or a map
//   - [ForEach]: fixed worker pool where each worker owns its scratch memory
//
// # Example
//
//	sys := physics.NewLorenz()
//	set, _ := dynamo.Trajectory(ctx, sys, integrators.NewRK4(), sys.DefaultState(), cfg)
//
// # Thread Safety
//
// A [StateSpaceSet] is never mutated after construction and may be shared
// by any number of goroutines. Integrators keep scratch buffers and are NOT
// thread-safe.
package dynamo
