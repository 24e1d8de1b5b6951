package integrators

import "github.com/san-kum/delab/internal/dynamo"

// tableau is the Butcher tableau of an explicit Runge-Kutta method: stage i
// is evaluated at t + c[i]·dt from x + dt·Σ a[i][j]·k[j], and the step
// combines the stages with weights b.
type tableau struct {
	a [][]float64
	b []float64
	c []float64
}

// rungeKutta steps any explicit tableau. Stage derivatives are copied into
// owned buffers, so a System may reuse the slice it returns from Derive.
// The buffers make a rungeKutta unsafe to share across goroutines.
type rungeKutta struct {
	tab   tableau
	k     []dynamo.State
	stage dynamo.State
}

func (rk *rungeKutta) resize(n int) {
	if len(rk.stage) == n && len(rk.k) == len(rk.tab.b) {
		return
	}
	rk.stage = make(dynamo.State, n)
	rk.k = make([]dynamo.State, len(rk.tab.b))
	for i := range rk.k {
		rk.k[i] = make(dynamo.State, n)
	}
}

func (rk *rungeKutta) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	rk.resize(len(x))

	for i, row := range rk.tab.a {
		copy(rk.stage, x)
		for j, aij := range row {
			if aij == 0 {
				continue
			}
			for n := range rk.stage {
				rk.stage[n] += dt * aij * rk.k[j][n]
			}
		}
		copy(rk.k[i], sys.Derive(rk.stage, t+rk.tab.c[i]*dt))
	}

	next := x.Clone()
	for i, bi := range rk.tab.b {
		for n := range next {
			next[n] += dt * bi * rk.k[i][n]
		}
	}
	return next
}
