package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/delab/internal/dynamo"
	"github.com/san-kum/delab/internal/integrators"
)

func TestPredPreyEquilibrium(t *testing.T) {
	for _, c := range []float64{0, 0.5, 1, 3} {
		p := NewPredPrey(c)
		x, y := p.Equilibrium()
		d := p.Derive(dynamo.State{x, y}, 0)
		if math.Abs(d[0]) > 1e-12 || math.Abs(d[1]) > 1e-12 {
			t.Errorf("coupling %g: expected rest at (%g, %g), got derivative %v", c, x, y, d)
		}
	}

	x, _ := NewPredPrey(0).Equilibrium()
	if x != 1 {
		t.Errorf("classic equilibrium should be 1, got %g", x)
	}
}

func TestPredPreyExchangeConserves(t *testing.T) {
	p := NewPredPrey(1)
	d := p.Derive(dynamo.State{0.7, 1.3}, 0)
	// The exchange term moves mass between species; only the linear terms remain.
	if got, want := d[0]+d[1], 0.7-1.3; math.Abs(got-want) > 1e-12 {
		t.Errorf("d(x+y)/dt = %g, want %g", got, want)
	}
}

func TestPredPreyClassicInvariant(t *testing.T) {
	p := NewPredPrey(0)
	integ := integrators.NewRK4()

	x := dynamo.State{0.5, 1.5}
	v0 := p.Invariant(x)
	dt := 0.01
	for i := 0; i < 2000; i++ {
		x = integ.Step(p, x, float64(i)*dt, dt)
	}

	if drift := math.Abs(p.Invariant(x) - v0); drift > 1e-7 {
		t.Errorf("invariant drifted by %g", drift)
	}
}

func TestPredPreySetParam(t *testing.T) {
	p := NewPredPrey(1)

	if err := p.SetParam("coupling", 0.25); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if p.GetParams()["coupling"] != 0.25 {
		t.Errorf("coupling not updated: %v", p.GetParams())
	}
	if err := p.SetParam("coupling", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := p.SetParam("alpha", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestRelaxationDerivative(t *testing.T) {
	r := NewRelaxation(2, 0, 1)
	if d := r.Derive(dynamo.State{0.5}, 3); math.Abs(d[0]) > 1e-15 {
		t.Errorf("y = q/p should be at rest, got %g", d[0])
	}

	ramp := NewRelaxation(0, 1, 0)
	if d := ramp.Derive(dynamo.State{2}, 3); d[0] != -6 {
		t.Errorf("expected -6, got %g", d[0])
	}
}

func TestRelaxationSetParam(t *testing.T) {
	r := NewRelaxation(0, 0, 0)
	for name, v := range map[string]float64{"p0": 2, "p1": 0.5, "q": 1} {
		if err := r.SetParam(name, v); err != nil {
			t.Fatalf("SetParam(%s) failed: %v", name, err)
		}
	}
	if r.P0 != 2 || r.P1 != 0.5 || r.Q != 1 {
		t.Errorf("params not applied: %+v", r)
	}
	if err := r.SetParam("k", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
