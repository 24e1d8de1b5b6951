// Package diffusion advances a 1D concentration field with an explicit
// finite-difference scheme.
//
// The field c(x) is sampled at N points with spacing Δx. Every step applies
// the three-point second-derivative stencil plus a static source term:
//
//	c'[i] = c[i] + Δt·(c[i-1] - 2c[i] + c[i+1])/Δx² + Δt·s[i]
//
// followed by two boundary conditions:
//
//   - Neumann (zero gradient) at index N-1, using the one-sided formula
//     3c[N-1] - 4c[N-2] + c[N-3] = 0
//   - Dirichlet at index 0, c[0] = DirichletValue
//
// The scheme is stable only for Δt ≤ Δx²/2. [Config.Validate] does not check
// this; a run that violates it grows without bound.
//
// # Example
//
//	st, err := diffusion.New(cfg)
//	if err != nil {
//	    return err
//	}
//	snaps := st.Run(cfg.TotalSteps, cfg.CaptureIterations)
//
// # Thread Safety
//
// A [Stepper] owns its field exclusively and is NOT safe for concurrent use.
package diffusion
