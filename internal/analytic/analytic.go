// Package analytic holds closed-form solutions used to check and annotate
// the numerical runs.
package analytic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Relaxation solves dy/dt + p·y = q, y(0) = y0 for constant p ≠ 0.
func Relaxation(p, q, y0, t float64) float64 {
	limit := q / p
	return limit + (y0-limit)*math.Exp(-p*t)
}

// Asymptotes describes the two straight lines a relaxation curve approaches:
// the tangent at t → 0 and the horizontal limit at t → ∞.
type Asymptotes struct {
	Slope     float64
	Intercept float64
	Limit     float64
}

func RelaxationAsymptotes(p, q, y0 float64) Asymptotes {
	return Asymptotes{
		Slope:     q - p*y0,
		Intercept: y0,
		Limit:     q / p,
	}
}

// GaussianDecay solves dy/dt + t·y = 0, y(0) = y0.
func GaussianDecay(y0, t float64) float64 {
	return y0 * math.Exp(-t*t/2)
}

// BoxProfile is the unbounded-domain solution of c_t = c_xx for a unit
// block on [a, b] at t = 0.
func BoxProfile(a, b, x, t float64) float64 {
	w := math.Sqrt(4 * t)
	return 0.5 * (math.Erf((x-a)/w) - math.Erf((x-b)/w))
}

// ImageBoxProfile is the half-line solution with c = 0 held at x = 0, built
// by subtracting the mirrored block.
func ImageBoxProfile(a, b, x, t float64) float64 {
	return BoxProfile(a, b, x, t) - BoxProfile(-b, -a, x, t)
}

// Sample evaluates f on n evenly spaced points covering [t0, t1].
func Sample(f func(float64) float64, t0, t1 float64, n int) (ts, ys []float64) {
	if n < 2 {
		n = 2
	}
	ts = make([]float64, n)
	floats.Span(ts, t0, t1)
	ys = make([]float64, n)
	for i, t := range ts {
		ys[i] = f(t)
	}
	return ts, ys
}
