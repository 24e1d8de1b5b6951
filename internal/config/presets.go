package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

var Presets = map[string]map[string]*Config{
	"diffusion": {
		"source": {
			Model:     "diffusion",
			Diffusion: DefaultDiffusion(),
		},
		"pulse": {
			Model: "diffusion",
			Diffusion: DiffusionConfig{
				GridLength: 100, SpatialStep: 1.0, TimeStep: 0.1, TotalSteps: 50000,
				CaptureIterations: []int{0, 100, 1000, 10000, 50000},
				InitialRegions:    []RegionConfig{{Start: 39, End: 61, Value: 1.0}},
			},
		},
		"salt": {
			Model: "diffusion",
			Diffusion: DiffusionConfig{
				GridLength: 100, SpatialStep: 1.0, TimeStep: 0.1, TotalSteps: 200000,
				CaptureIterations: []int{0, 1000, 10000, 50000, 200000},
				DirichletValue:    1.0,
			},
		},
	},
	"predprey": {
		"quartic": {
			Model:    "predprey",
			PredPrey: PredPreyConfig{Prey: 0.1, Predator: 0.1, Coupling: 1.0, Integrator: "rk4", Dt: 0.01, Duration: 100},
		},
		"classic": {
			Model:    "predprey",
			PredPrey: PredPreyConfig{Prey: 0.5, Predator: 1.5, Coupling: 0, Integrator: "rk4", Dt: 0.01, Duration: 30},
		},
	},
	"relaxation": {
		"constant": {
			Model:      "relaxation",
			Relaxation: RelaxationConfig{P0: 2, Q: 1, Y0: 0, Integrator: "rk4", Dt: 0.01, Duration: 4},
		},
		"ramp": {
			Model:      "relaxation",
			Relaxation: RelaxationConfig{P1: 1, Q: 0, Y0: 1, Integrator: "rk4", Dt: 0.01, Duration: 4},
		},
	},
}

// GetPreset returns a copy of the named preset so callers may modify it.
func GetPreset(model, preset string) (*Config, error) {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil, fmt.Errorf("%w: no presets for model %q", ErrUnknownPreset, model)
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, preset, ListPresets(model))
	}
	c := *cfg
	c.Diffusion.CaptureIterations = append([]int(nil), cfg.Diffusion.CaptureIterations...)
	c.Diffusion.InitialRegions = append([]RegionConfig(nil), cfg.Diffusion.InitialRegions...)
	c.Diffusion.SourceRegions = append([]RegionConfig(nil), cfg.Diffusion.SourceRegions...)
	return &c, nil
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
