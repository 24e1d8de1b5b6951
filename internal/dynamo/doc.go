// Package dynamo provides the ODE primitives shared by the non-diffusion
// models of the lab.
//
// The package defines the interfaces used to integrate dX/dt = f(X, t):
//
//   - [State]: vector representing system state
//   - [System]: right-hand side of an ODE system
//   - [Integrator]: fixed-step numerical integrator
//   - [Invariant]: optional first integral used to measure drift
//   - [Configurable]: optional runtime parameter access
//
// # Example
//
//	sys := physics.NewPredPrey(1.0)
//	sim := sim.New(sys, integrators.NewRK4())
//	result, _ := sim.Run(ctx, dynamo.State{0.1, 0.1}, cfg)
package dynamo
