package diffusion

import (
	"errors"
	"fmt"
)

// MinGridLength is the smallest grid the one-sided Neumann formula can use.
const MinGridLength = 4

// ErrInvalidArgument indicates a construction parameter outside its domain.
var ErrInvalidArgument = errors.New("diffusion: invalid argument")

// Config holds every parameter of a diffusion run.
type Config struct {
	// GridLength is the number of samples N. Must be at least 4.
	GridLength int

	// SpatialStep is Δx. Must be positive.
	SpatialStep float64

	// TimeStep is Δt. Must be positive. Stability (Δt ≤ Δx²/2) is the
	// caller's responsibility.
	TimeStep float64

	// TotalSteps is the number of steps taken by Simulate.
	TotalSteps int

	// CaptureIterations lists the iteration counts recorded as snapshots in
	// addition to the initial state.
	CaptureIterations []int

	// InitialField holds the N starting concentrations.
	InitialField []float64

	// SourceField holds the N source values added every step, scaled by Δt.
	SourceField []float64

	// DirichletValue is the concentration imposed at index 0.
	DirichletValue float64
}

// MeshRatio is r = Δt/Δx², the stencil weight. The scheme is stable for
// r ≤ 1/2.
func (c Config) MeshRatio() float64 {
	return c.TimeStep / (c.SpatialStep * c.SpatialStep)
}

// Validate reports the first parameter that makes the configuration unusable.
func (c Config) Validate() error {
	if c.GridLength < MinGridLength {
		return fmt.Errorf("%w: grid length must be at least %d, got %d", ErrInvalidArgument, MinGridLength, c.GridLength)
	}
	if !(c.SpatialStep > 0) {
		return fmt.Errorf("%w: spatial step must be positive, got %g", ErrInvalidArgument, c.SpatialStep)
	}
	if !(c.TimeStep > 0) {
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidArgument, c.TimeStep)
	}
	if c.TotalSteps < 0 {
		return fmt.Errorf("%w: total steps must not be negative, got %d", ErrInvalidArgument, c.TotalSteps)
	}
	if len(c.InitialField) != c.GridLength {
		return fmt.Errorf("%w: initial field has %d values, grid has %d", ErrInvalidArgument, len(c.InitialField), c.GridLength)
	}
	if len(c.SourceField) != c.GridLength {
		return fmt.Errorf("%w: source field has %d values, grid has %d", ErrInvalidArgument, len(c.SourceField), c.GridLength)
	}
	return nil
}

// Region is a half-open index range [Start, End) holding a constant value.
type Region struct {
	Start int
	End   int
	Value float64
}

// Uniform returns a field of n samples all equal to v.
func Uniform(n int, v float64) []float64 {
	f := make([]float64, n)
	if v != 0 {
		for i := range f {
			f[i] = v
		}
	}
	return f
}

// Fill writes each region into field in order; later regions win on overlap.
func Fill(field []float64, regions ...Region) error {
	for _, r := range regions {
		if r.Start < 0 || r.End > len(field) || r.Start > r.End {
			return fmt.Errorf("%w: region [%d,%d) outside grid of %d", ErrInvalidArgument, r.Start, r.End, len(field))
		}
		for i := r.Start; i < r.End; i++ {
			field[i] = r.Value
		}
	}
	return nil
}
