package main

import (
	"context"
	"errors"
	"math"
	"testing"
)

func setSweep(t *testing.T, grid, start, end int, until float64) {
	t.Helper()
	g, s, e, u := gridLength, blockStart, blockEnd, sweepTime
	t.Cleanup(func() { gridLength, blockStart, blockEnd, sweepTime = g, s, e, u })
	gridLength, blockStart, blockEnd, sweepTime = grid, start, end, until
}

func TestSweepConfigMeshRatio(t *testing.T) {
	setSweep(t, 60, 10, 20, 6)

	tests := []struct {
		dt    float64
		steps int
	}{
		{0.1, 60},
		{0.4, 15},
		{0.6, 10},
	}
	for _, tt := range tests {
		d, err := sweepConfig(tt.dt).Build()
		if err != nil {
			t.Fatalf("dt=%g: %v", tt.dt, err)
		}
		if d.TotalSteps != tt.steps {
			t.Errorf("dt=%g: expected %d steps, got %d", tt.dt, tt.steps, d.TotalSteps)
		}
		if r := d.MeshRatio(); math.Abs(r-tt.dt/(sweepSpacing*sweepSpacing)) > 1e-15 {
			t.Errorf("dt=%g: unexpected mesh ratio %g", tt.dt, r)
		}
	}
}

func TestImageErrorStableStep(t *testing.T) {
	setSweep(t, 60, 10, 20, 6)

	score, err := imageError(context.Background(), map[string]float64{"dt": 0.1})
	if err != nil {
		t.Fatalf("objective failed: %v", err)
	}
	if !(score > 0 && score < 0.1) {
		t.Errorf("expected a small positive error, got %g", score)
	}
}

func TestImageErrorRejectsBadInput(t *testing.T) {
	setSweep(t, 60, 10, 20, 6)

	if _, err := imageError(context.Background(), map[string]float64{"dt": 0}); err == nil {
		t.Error("expected error for dt=0")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := imageError(ctx, map[string]float64{"dt": 0.1}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
