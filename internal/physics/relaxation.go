package physics

import (
	"fmt"

	"github.com/san-kum/delab/internal/dynamo"
)

// Relaxation is the first-order linear ODE dy/dt + p(t)·y = q with
// p(t) = P0 + P1·t.
type Relaxation struct {
	P0, P1, Q float64
}

func NewRelaxation(p0, p1, q float64) *Relaxation {
	return &Relaxation{P0: p0, P1: p1, Q: q}
}

func (r *Relaxation) StateDim() int { return 1 }

func (r *Relaxation) Derive(s dynamo.State, t float64) dynamo.State {
	return dynamo.State{r.Q - (r.P0+r.P1*t)*s[0]}
}

// GetParams implements dynamo.Configurable
func (r *Relaxation) GetParams() map[string]float64 {
	return map[string]float64{"p0": r.P0, "p1": r.P1, "q": r.Q}
}

// SetParam implements dynamo.Configurable
func (r *Relaxation) SetParam(name string, value float64) error {
	switch name {
	case "p0":
		r.P0 = value
	case "p1":
		r.P1 = value
	case "q":
		r.Q = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}
