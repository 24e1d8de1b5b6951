package experiment

import (
	"math"

	"github.com/san-kum/delab/internal/analytic"
	"github.com/san-kum/delab/internal/config"
	"github.com/san-kum/delab/internal/diffusion"
	"github.com/san-kum/delab/internal/metrics"
)

// DiffusionRun is a finished diffusion run with its snapshot metrics.
type DiffusionRun struct {
	Config    diffusion.Config
	Snapshots []diffusion.Snapshot
	Metrics   map[string]float64
}

func RunDiffusion(c config.DiffusionConfig, observers ...diffusion.Observer) (*DiffusionRun, error) {
	cfg, err := c.Build()
	if err != nil {
		return nil, err
	}

	ms := metrics.Defaults(cfg.SpatialStep)
	obs := make([]diffusion.Observer, 0, len(ms)+len(observers))
	for _, m := range ms {
		obs = append(obs, m)
	}
	obs = append(obs, observers...)

	snaps, err := diffusion.Simulate(cfg, obs...)
	if err != nil {
		return nil, err
	}
	return &DiffusionRun{Config: cfg, Snapshots: snaps, Metrics: metrics.Collect(ms)}, nil
}

func (r *DiffusionRun) Params() map[string]float64 {
	return map[string]float64{
		"grid_length":     float64(r.Config.GridLength),
		"spatial_step":    r.Config.SpatialStep,
		"time_step":       r.Config.TimeStep,
		"total_steps":     float64(r.Config.TotalSteps),
		"dirichlet_value": r.Config.DirichletValue,
	}
}

// Comparison is the deviation of one snapshot from the image-method profile.
type Comparison struct {
	Iteration   int
	Time        float64
	MaxAbsError float64
	Numeric     []float64
	Exact       []float64
}

// CompareImage checks snapshots of an unsourced block release against the
// half-line closed form. The block covers cells [start, end); cell i sits at
// x = i·dx, so the block edges are half a cell outside the first and last
// cell. The closed form assumes an unbounded right side, so the comparison
// is only meaningful before mass reaches the far wall. Snapshots at t = 0
// are skipped.
func CompareImage(snaps []diffusion.Snapshot, start, end int, dx float64) []Comparison {
	a := (float64(start) - 0.5) * dx
	b := (float64(end) - 0.5) * dx

	out := make([]Comparison, 0, len(snaps))
	for _, s := range snaps {
		if s.Time <= 0 {
			continue
		}
		c := Comparison{
			Iteration: s.Iteration,
			Time:      s.Time,
			Numeric:   s.Values,
			Exact:     make([]float64, len(s.Values)),
		}
		for i, v := range s.Values {
			c.Exact[i] = analytic.ImageBoxProfile(a, b, float64(i)*dx, s.Time)
			c.MaxAbsError = math.Max(c.MaxAbsError, math.Abs(v-c.Exact[i]))
		}
		out = append(out, c)
	}
	return out
}
