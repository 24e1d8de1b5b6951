package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/delab/internal/dynamo"
)

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      100.0,
		ValidateState: true,
	}
}

// Result holds the sampled trajectory of one run. States[i] is the state at
// Times[i]; index 0 is the initial condition.
type Result struct {
	States         []dynamo.State
	Times          []float64
	StepsTaken     int
	InvariantDrift float64
	Errors         []error
}

type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	observers  []dynamo.Observer
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		States: make([]dynamo.State, 0, steps+1),
		Times:  make([]float64, 0, steps+1),
		Errors: make([]error, 0),
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		newX := s.integrator.Step(s.sys, x, t, cfg.Dt)

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, dynamo.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		x = newX
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	if inv, ok := s.sys.(dynamo.Invariant); ok {
		v0 := inv.Invariant(x0)
		if v0 != 0 {
			result.InvariantDrift = math.Abs(inv.Invariant(x)-v0) / math.Abs(v0)
		}
	}

	return result, nil
}

func (s *Simulator) validate(x0 dynamo.State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("%w: state has %d values, system needs %d", dynamo.ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	if !x0.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}

// Column extracts state component idx across the trajectory.
func (r *Result) Column(idx int) []float64 {
	col := make([]float64, len(r.States))
	for i, x := range r.States {
		if idx < len(x) {
			col[i] = x[idx]
		}
	}
	return col
}
