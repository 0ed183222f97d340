// Package physics provides dynamical systems whose attractors serve as
// test beds for dimension estimates.
//
// Flows implement [dynamo.System], maps implement [dynamo.Map]:
//
//   - [Lorenz]: butterfly attractor, dimension ≈ 2.06
//   - [Rossler]: band attractor, dimension ≈ 2.01
//   - [Henon]: planar map, dimension ≈ 1.26
//
// All models implement [dynamo.Configurable] for runtime parameter
// adjustment.
//
// # Sampling an attractor
//
//	sys := physics.NewLorenz()
//	set, err := dynamo.Trajectory(ctx, sys, integrators.NewRK4(), sys.DefaultState(), cfg)
package physics
