// Package analysis inspects finished ODE trajectories.
//
//   - [NewPhasePortrait]: project a trajectory onto two state components
//   - [PhasePortraitToASCII]: draw a portrait as terminal art
//   - [NewSection]: record where a trajectory crosses a threshold, the
//     basis for [Section.Period] on closed predator-prey orbits
//
// # Orbit period
//
//	res, _ := simulator.Run(ctx, x0, cfg)
//	sec, _ := analysis.NewSection(res, 0, 1.0, 1)
//	period := sec.Period()
package analysis
