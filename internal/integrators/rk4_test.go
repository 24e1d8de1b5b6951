package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/delab/internal/dynamo"
)

type harmonic struct{}

func (h *harmonic) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonic) StateDim() int { return 2 }

type decay struct{ k float64 }

func (d *decay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-d.k * x[0]}
}

func (d *decay) StateDim() int { return 1 }

func TestRK4Accuracy(t *testing.T) {
	sys := &harmonic{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	integ := NewRK4()
	x := dynamo.State{1.0, 0.0}
	_ = integ.Step(&harmonic{}, x, 0, 0.1)
	if x[0] != 1.0 || x[1] != 0.0 {
		t.Errorf("input state modified: %v", x)
	}
}

func TestEulerSingleStep(t *testing.T) {
	integ := NewEuler()
	x := integ.Step(&decay{k: 2}, dynamo.State{1.0}, 0, 0.1)
	if math.Abs(x[0]-0.8) > 1e-15 {
		t.Errorf("expected 0.8, got %v", x[0])
	}
}

func TestEulerConvergesFirstOrder(t *testing.T) {
	sys := &decay{k: 1}
	errAt := func(dt float64) float64 {
		integ := NewEuler()
		x := dynamo.State{1.0}
		steps := int(math.Round(1.0 / dt))
		for i := 0; i < steps; i++ {
			x = integ.Step(sys, x, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Exp(-1))
	}

	ratio := errAt(0.01) / errAt(0.005)
	if ratio < 1.8 || ratio > 2.2 {
		t.Errorf("expected error ratio ~2 when halving dt, got %.3f", ratio)
	}
}

// sharedBuffer returns the same slice from every Derive call.
type sharedBuffer struct{ out dynamo.State }

func (s *sharedBuffer) Derive(x dynamo.State, t float64) dynamo.State {
	s.out[0] = x[1]
	s.out[1] = -x[0]
	return s.out
}

func (s *sharedBuffer) StateDim() int { return 2 }

func TestRK4SystemMayReuseDerivative(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	got := NewRK4().Step(&sharedBuffer{out: make(dynamo.State, 2)}, x, 0, 0.1)
	want := NewRK4().Step(&harmonic{}, x, 0, 0.1)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRK4ConvergesFourthOrder(t *testing.T) {
	sys := &decay{k: 1}
	errAt := func(dt float64) float64 {
		integ := NewRK4()
		x := dynamo.State{1.0}
		steps := int(math.Round(1.0 / dt))
		for i := 0; i < steps; i++ {
			x = integ.Step(sys, x, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Exp(-1))
	}

	ratio := errAt(0.1) / errAt(0.05)
	if ratio < 14 || ratio > 18 {
		t.Errorf("expected error ratio ~16 when halving dt, got %.3f", ratio)
	}
}

func TestRK4HandlesDimensionChange(t *testing.T) {
	integ := NewRK4()
	_ = integ.Step(&harmonic{}, dynamo.State{1, 0}, 0, 0.1)
	x := integ.Step(&decay{k: 1}, dynamo.State{1}, 0, 0.1)
	if len(x) != 1 || math.Abs(x[0]-math.Exp(-0.1)) > 1e-6 {
		t.Errorf("unexpected result after resizing: %v", x)
	}
}
