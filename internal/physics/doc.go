// Package physics provides the ODE models explored by the lab.
//
// Each model implements [dynamo.System]:
//
//   - [PredPrey]: predator-prey dynamics with an optional quartic exchange
//   - [Relaxation]: dy/dt + p(t)y = q with p linear in time
//
// Both also implement [dynamo.Configurable]. [PredPrey] implements
// [dynamo.Invariant]; the value is conserved only for the classic system:
//
//	p := physics.NewPredPrey(0)
//	v := p.Invariant(state)
package physics
