package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/delab/internal/diffusion"
)

// Metric summarises the most recent snapshot it has observed. Every metric
// is also a diffusion.Observer, so it can be attached to a Stepper directly.
type Metric interface {
	diffusion.Observer
	Name() string
	Observe(s diffusion.Snapshot)
	Value() float64
	Reset()
}

// Mass is the total amount of substance, Σc·Δx.
type Mass struct {
	dx    float64
	value float64
}

func NewMass(dx float64) *Mass { return &Mass{dx: dx} }

func (m *Mass) Name() string                    { return "mass" }
func (m *Mass) Observe(s diffusion.Snapshot)    { m.value = floats.Sum(s.Values) * m.dx }
func (m *Mass) OnSnapshot(s diffusion.Snapshot) { m.Observe(s) }
func (m *Mass) Value() float64                  { return m.value }
func (m *Mass) Reset()                          { m.value = 0 }

// Peak is the largest concentration anywhere on the grid.
type Peak struct {
	value float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(s diffusion.Snapshot) {
	if len(s.Values) == 0 {
		p.value = 0
		return
	}
	p.value = floats.Max(s.Values)
}

func (p *Peak) OnSnapshot(s diffusion.Snapshot) { p.Observe(s) }
func (p *Peak) Value() float64                  { return p.value }
func (p *Peak) Reset()                          { p.value = 0 }

// WallFlux is the gradient (c[1] - c[0])/Δx at the Dirichlet wall, the rate
// at which substance leaves through index 0 for unit diffusivity.
type WallFlux struct {
	dx    float64
	value float64
}

func NewWallFlux(dx float64) *WallFlux { return &WallFlux{dx: dx} }

func (w *WallFlux) Name() string { return "wall_flux" }

func (w *WallFlux) Observe(s diffusion.Snapshot) {
	if len(s.Values) < 2 {
		w.value = 0
		return
	}
	w.value = (s.Values[1] - s.Values[0]) / w.dx
}

func (w *WallFlux) OnSnapshot(s diffusion.Snapshot) { w.Observe(s) }
func (w *WallFlux) Value() float64                  { return w.value }
func (w *WallFlux) Reset()                          { w.value = 0 }

// Defaults returns the standard field metrics for a grid with spacing dx.
func Defaults(dx float64) []Metric {
	return []Metric{NewMass(dx), NewPeak(), NewWallFlux(dx)}
}

// Collect reads every metric into a name → value map.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
