package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/delab/internal/config"
	"github.com/san-kum/delab/internal/diffusion"
	"github.com/san-kum/delab/internal/experiment"
	"github.com/san-kum/delab/internal/optim"
	"github.com/san-kum/delab/internal/tui"
)

// sweepSpacing is Δx for every sweep run; the image-method profile is
// compared on the unit grid.
const sweepSpacing = 1.0

// sweepConfig releases a unit block and runs it until sweepTime.
func sweepConfig(step float64) config.DiffusionConfig {
	n := int(math.Round(sweepTime / step))
	return config.DiffusionConfig{
		GridLength:        gridLength,
		SpatialStep:       sweepSpacing,
		TimeStep:          step,
		TotalSteps:        n,
		CaptureIterations: []int{n},
		InitialRegions:    []config.RegionConfig{{Start: blockStart, End: blockEnd, Value: 1}},
	}
}

// imageError releases a unit block, runs until t, and returns the largest
// deviation from the image-method profile at that time.
func imageError(ctx context.Context, params map[string]float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	step := params["dt"]
	if !(step > 0) {
		return 0, fmt.Errorf("dt must be positive, got %g", step)
	}
	d := sweepConfig(step)
	run, err := experiment.RunDiffusion(d)
	if err != nil {
		return 0, err
	}
	results := experiment.CompareImage(run.Snapshots, blockStart, blockEnd, d.SpatialStep)
	if len(results) == 0 {
		return 0, fmt.Errorf("no snapshot after t=0")
	}
	return results[len(results)-1].MaxAbsError, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	g := optim.NewGridSearch([]string{"dt"}, [][]float64{sweepDts})
	best, score, trials, err := g.Search(cmd.Context(), imageError)
	if err != nil {
		return err
	}
	sort.Slice(trials, func(i, j int) bool { return trials[i].Params["dt"] < trials[j].Params["dt"] })

	fmt.Fprintf(out, "%s\n", tui.Title.Render("time step sweep"))
	fmt.Fprintf(out, "block [%d,%d) on %d cells, compared at t=%g\n\n", blockStart, blockEnd, gridLength, sweepTime)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tR\tMAX |ERROR|\tSTATUS")
	for _, tr := range trials {
		status := "ok"
		switch {
		case tr.Err != nil:
			status = tr.Err.Error()
		case math.IsNaN(tr.Score) || math.IsInf(tr.Score, 0) || tr.Score > 1:
			status = "unstable"
		}
		step := tr.Params["dt"]
		r := diffusion.Config{TimeStep: step, SpatialStep: sweepSpacing}.MeshRatio()
		fmt.Fprintf(w, "%g\t%g\t%.3e\t%s\n", step, r, tr.Score, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best != nil {
		fmt.Fprintf(out, "\n%s\n", tui.Metric("best dt", fmt.Sprintf("%g (error %.3e)", best["dt"], score)))
	}
	return nil
}
