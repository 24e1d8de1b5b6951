package integrators

// RK4 is the classic fourth-order Runge-Kutta method, the default for the
// predator-prey and relaxation runs.
type RK4 struct {
	rungeKutta
}

func NewRK4() *RK4 {
	return &RK4{rungeKutta{tab: tableau{
		a: [][]float64{
			{},
			{0.5},
			{0, 0.5},
			{0, 0, 1},
		},
		b: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
		c: []float64{0, 0.5, 0.5, 1},
	}}}
}
