package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/delab/internal/analysis"
	"github.com/san-kum/delab/internal/diffusion"
)

var (
	ErrNoData    = errors.New("render: nothing to draw")
	ErrNonFinite = errors.New("render: values are NaN or infinite")
)

type ChartOptions struct {
	Title  string
	Width  int
	Height int
	XLabel string
	YLabel string
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:  960,
		Height: 540,
		XLabel: "Position index",
		YLabel: "Concentration",
	}
}

var palette = []drawing.Color{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
	{R: 227, G: 119, B: 194, A: 255},
	{R: 127, G: 127, B: 127, A: 255},
}

func color(i int) drawing.Color { return palette[i%len(palette)] }

// Series is one named curve of a time-series chart.
type Series struct {
	Name   string
	Values []float64
}

// SnapshotLabel is the legend text used for a snapshot in every renderer.
func SnapshotLabel(s diffusion.Snapshot) string {
	return fmt.Sprintf("iteration %d (t=%g)", s.Iteration, s.Time)
}

// SnapshotChart draws one labelled curve per snapshot against position index.
func SnapshotChart(w io.Writer, snaps []diffusion.Snapshot, opts ChartOptions) error {
	if len(snaps) == 0 {
		return ErrNoData
	}
	lo, hi, err := valueRange(snaps)
	if err != nil {
		return err
	}
	graph := snapshotGraph(snaps, opts, lo, hi)
	return graph.Render(chart.PNG, w)
}

func snapshotGraph(snaps []diffusion.Snapshot, opts ChartOptions, lo, hi float64) chart.Chart {
	n := len(snaps[0].Values)
	xs := make([]float64, n)
	floats.Span(xs, 0, float64(n-1))

	series := make([]chart.Series, len(snaps))
	for i, s := range snaps {
		series[i] = chart.ContinuousSeries{
			Name:    SnapshotLabel(s),
			XValues: xs,
			YValues: s.Values,
			Style:   chart.Style{StrokeColor: color(i), StrokeWidth: 2.0},
		}
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:  opts.XLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(n - 1)},
		},
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

// TimeSeriesChart draws each series against times.
func TimeSeriesChart(w io.Writer, times []float64, series []Series, opts ChartOptions) error {
	return LineChart(w, times, series, opts)
}

// LineChart draws each series against the shared, increasing xs.
func LineChart(w io.Writer, xs []float64, series []Series, opts ChartOptions) error {
	if len(xs) < 2 || len(series) == 0 {
		return ErrNoData
	}

	if !finite(xs) {
		return fmt.Errorf("x values: %w", ErrNonFinite)
	}
	lo, hi, err := minMax(series)
	if err != nil {
		return err
	}
	lo, hi = padRange(lo, hi)
	cs := make([]chart.Series, len(series))
	for i, s := range series {
		if len(s.Values) != len(xs) {
			return fmt.Errorf("series %s has %d values for %d points", s.Name, len(s.Values), len(xs))
		}
		cs[i] = chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style:   chart.Style{StrokeColor: color(i), StrokeWidth: 2.0},
		}
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:  opts.XLabel,
			Range: &chart.ContinuousRange{Min: xs[0], Max: xs[len(xs)-1]},
		},
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: cs,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// PhaseChart draws a phase portrait as a single curve.
func PhaseChart(w io.Writer, p *analysis.PhasePortrait, opts ChartOptions) error {
	if p == nil || len(p.Points) < 2 {
		return ErrNoData
	}

	xs := make([]float64, len(p.Points))
	ys := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	if !finite(xs) || !finite(ys) {
		return ErrNonFinite
	}
	minX, maxX, minY, maxY := analysis.Bounds(p.Points)

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:  opts.XLabel,
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: color(0), StrokeWidth: 1.5},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// valueRange is the padded value range over every snapshot. go-chart
// rejects an empty range, so a flat field still gets a unit span. A run that
// diverged has no usable range and yields ErrNonFinite.
func valueRange(snaps []diffusion.Snapshot) (float64, float64, error) {
	series := make([]Series, len(snaps))
	for i, s := range snaps {
		series[i] = Series{Name: SnapshotLabel(s), Values: s.Values}
	}
	lo, hi, err := minMax(series)
	if err != nil {
		return 0, 0, err
	}
	lo, hi = padRange(lo, hi)
	return lo, hi, nil
}

func minMax(series []Series) (float64, float64, error) {
	lo, hi := 0.0, 0.0
	first := true
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		if !finite(s.Values) {
			return 0, 0, fmt.Errorf("%s: %w", s.Name, ErrNonFinite)
		}
		smin, smax := floats.Min(s.Values), floats.Max(s.Values)
		if first {
			lo, hi, first = smin, smax, false
			continue
		}
		lo = min(lo, smin)
		hi = max(hi, smax)
	}
	return lo, hi, nil
}

func finite(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func padRange(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		return lo - 0.5, hi + 0.5
	}
	return lo - span*0.05, hi + span*0.05
}
