package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/delab/internal/dynamo"
)

// PredPrey is a predator-prey system with an extra quartic exchange term.
// State: [x, y] with x the prey and y the predator population.
// Equations:
//
//	dx/dt =  x - xy - c·x²y²
//	dy/dt = -y + xy + c·x²y²
//
// With c = 0 it reduces to the classic Lotka-Volterra system.
type PredPrey struct {
	Coupling float64
}

func NewPredPrey(coupling float64) *PredPrey {
	return &PredPrey{Coupling: coupling}
}

func (p *PredPrey) StateDim() int { return 2 }

func (p *PredPrey) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y := s[0], s[1]
	exchange := x*y + p.Coupling*x*x*y*y
	return dynamo.State{x - exchange, -y + exchange}
}

// Invariant returns V = x - ln x + y - ln y. It is a first integral only
// when Coupling is zero.
func (p *PredPrey) Invariant(s dynamo.State) float64 {
	x, y := s[0], s[1]
	return x - math.Log(x) + y - math.Log(y)
}

// Equilibrium returns the coexistence fixed point. It lies on x = y = a
// with c·a³ + a - 1 = 0.
func (p *PredPrey) Equilibrium() (float64, float64) {
	a := 1.0
	for i := 0; i < 50; i++ {
		f := p.Coupling*a*a*a + a - 1
		df := 3*p.Coupling*a*a + 1
		next := a - f/df
		if math.Abs(next-a) < 1e-15 {
			a = next
			break
		}
		a = next
	}
	return a, a
}

func (p *PredPrey) DefaultState() dynamo.State { return dynamo.State{0.1, 0.1} }

// GetParams implements dynamo.Configurable
func (p *PredPrey) GetParams() map[string]float64 {
	return map[string]float64{"coupling": p.Coupling}
}

// SetParam implements dynamo.Configurable
func (p *PredPrey) SetParam(name string, value float64) error {
	if name != "coupling" {
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	if value < 0 || math.IsNaN(value) {
		return fmt.Errorf("%w: coupling must be non-negative, got %g", dynamo.ErrParameterBounds, value)
	}
	p.Coupling = value
	return nil
}
