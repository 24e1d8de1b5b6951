package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/delab/internal/config"
	"github.com/san-kum/delab/internal/dynamo"
	"github.com/san-kum/delab/internal/sim"
)

type Config struct {
	Model      string
	Integrator string
	InitState  []float64
	Dt         float64
	Duration   float64
	Params     map[string]float64
}

func FromPredPrey(c config.PredPreyConfig) Config {
	return Config{
		Model:      "predprey",
		Integrator: c.Integrator,
		InitState:  []float64{c.Prey, c.Predator},
		Dt:         c.Dt,
		Duration:   c.Duration,
		Params:     map[string]float64{"coupling": c.Coupling},
	}
}

func FromRelaxation(c config.RelaxationConfig) Config {
	return Config{
		Model:      "relaxation",
		Integrator: c.Integrator,
		InitState:  []float64{c.Y0},
		Dt:         c.Dt,
		Duration:   c.Duration,
		Params:     map[string]float64{"p0": c.P0, "p1": c.P1, "q": c.Q},
	}
}

type Experiment struct {
	cfg       Config
	system    dynamo.System
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(reg *Registry) error {
	sys, err := reg.GetModel(e.cfg.Model, e.cfg.Params)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	e.system = sys
	e.simulator = sim.New(sys, integ)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := make(dynamo.State, len(e.cfg.InitState))
	copy(x0, e.cfg.InitState)

	simCfg := sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
	}
	return e.simulator.Run(ctx, x0, simCfg)
}

// Params returns the run parameters as stored alongside saved results.
func (e *Experiment) Params() map[string]float64 {
	params := map[string]float64{"dt": e.cfg.Dt, "duration": e.cfg.Duration}
	for k, v := range e.cfg.Params {
		params[k] = v
	}
	for i, v := range e.cfg.InitState {
		params[fmt.Sprintf("x0_%d", i)] = v
	}
	return params
}

func (e *Experiment) System() dynamo.System {
	return e.system
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
