package integrators

// Euler is the forward Euler method, first order. Its error halves with dt;
// it is kept as the baseline the RK4 runs are compared against.
type Euler struct {
	rungeKutta
}

func NewEuler() *Euler {
	return &Euler{rungeKutta{tab: tableau{
		a: [][]float64{{}},
		b: []float64{1},
		c: []float64{0},
	}}}
}
