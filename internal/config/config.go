package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/delab/internal/diffusion"
)

const (
	DefaultGridLength  = 100
	DefaultSpatialStep = 1.0
	DefaultTimeStep    = 0.1
	DefaultTotalSteps  = 200000
	DefaultODEDt       = 0.01
	DefaultODEDuration = 100.0
	DefaultIntegrator  = "rk4"
)

// DefaultCaptures are the iterations plotted by the salt-transport run.
var DefaultCaptures = []int{0, 1000, 10000, 50000, 200000}

type Config struct {
	Model      string           `yaml:"model"`
	Diffusion  DiffusionConfig  `yaml:"diffusion"`
	PredPrey   PredPreyConfig   `yaml:"predprey"`
	Relaxation RelaxationConfig `yaml:"relaxation"`
}

type RegionConfig struct {
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Value float64 `yaml:"value"`
}

type DiffusionConfig struct {
	GridLength        int            `yaml:"grid_length"`
	SpatialStep       float64        `yaml:"spatial_step"`
	TimeStep          float64        `yaml:"time_step"`
	TotalSteps        int            `yaml:"total_steps"`
	CaptureIterations []int          `yaml:"capture_iterations"`
	DirichletValue    float64        `yaml:"dirichlet_value"`
	InitialValue      float64        `yaml:"initial_value"`
	InitialRegions    []RegionConfig `yaml:"initial_regions"`
	SourceRegions     []RegionConfig `yaml:"source_regions"`
}

type PredPreyConfig struct {
	Prey       float64 `yaml:"prey"`
	Predator   float64 `yaml:"predator"`
	Coupling   float64 `yaml:"coupling"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
}

type RelaxationConfig struct {
	P0         float64 `yaml:"p0"`
	P1         float64 `yaml:"p1"`
	Q          float64 `yaml:"q"`
	Y0         float64 `yaml:"y0"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     "diffusion",
		Diffusion: DefaultDiffusion(),
		PredPrey: PredPreyConfig{
			Prey:       0.1,
			Predator:   0.1,
			Coupling:   1.0,
			Integrator: DefaultIntegrator,
			Dt:         DefaultODEDt,
			Duration:   DefaultODEDuration,
		},
		Relaxation: RelaxationConfig{
			P0:         2.0,
			Q:          1.0,
			Integrator: DefaultIntegrator,
			Dt:         DefaultODEDt,
			Duration:   4.0,
		},
	}
}

// DefaultDiffusion is the salt-transport run: an empty channel fed by a unit
// source on [45,56), absorbing at index 0 and walled at the far end.
func DefaultDiffusion() DiffusionConfig {
	return DiffusionConfig{
		GridLength:        DefaultGridLength,
		SpatialStep:       DefaultSpatialStep,
		TimeStep:          DefaultTimeStep,
		TotalSteps:        DefaultTotalSteps,
		CaptureIterations: append([]int(nil), DefaultCaptures...),
		SourceRegions:     []RegionConfig{{Start: 45, End: 56, Value: 1.0}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build expands the region lists into the arrays a diffusion.Stepper needs.
func (d DiffusionConfig) Build() (diffusion.Config, error) {
	if d.GridLength < diffusion.MinGridLength {
		return diffusion.Config{}, fmt.Errorf("%w: grid length must be at least %d, got %d",
			diffusion.ErrInvalidArgument, diffusion.MinGridLength, d.GridLength)
	}

	initial := diffusion.Uniform(d.GridLength, d.InitialValue)
	if err := diffusion.Fill(initial, regions(d.InitialRegions)...); err != nil {
		return diffusion.Config{}, fmt.Errorf("initial regions: %w", err)
	}

	source := diffusion.Uniform(d.GridLength, 0)
	if err := diffusion.Fill(source, regions(d.SourceRegions)...); err != nil {
		return diffusion.Config{}, fmt.Errorf("source regions: %w", err)
	}

	cfg := diffusion.Config{
		GridLength:        d.GridLength,
		SpatialStep:       d.SpatialStep,
		TimeStep:          d.TimeStep,
		TotalSteps:        d.TotalSteps,
		CaptureIterations: append([]int(nil), d.CaptureIterations...),
		InitialField:      initial,
		SourceField:       source,
		DirichletValue:    d.DirichletValue,
	}
	return cfg, cfg.Validate()
}

func regions(rs []RegionConfig) []diffusion.Region {
	out := make([]diffusion.Region, len(rs))
	for i, r := range rs {
		out[i] = diffusion.Region{Start: r.Start, End: r.End, Value: r.Value}
	}
	return out
}
