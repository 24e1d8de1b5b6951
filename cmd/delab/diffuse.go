package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/delab/internal/config"
	"github.com/san-kum/delab/internal/diffusion"
	"github.com/san-kum/delab/internal/experiment"
	"github.com/san-kum/delab/internal/metrics"
	"github.com/san-kum/delab/internal/render"
	"github.com/san-kum/delab/internal/storage"
	"github.com/san-kum/delab/internal/tui"
)

func diffusionConfig(cmd *cobra.Command) (config.DiffusionConfig, error) {
	cfg, err := loadConfig("diffusion")
	if err != nil {
		return config.DiffusionConfig{}, err
	}
	d := cfg.Diffusion

	// CLI flags override config
	if cmd.Flags().Changed("steps") {
		d.TotalSteps = steps
	}
	if cmd.Flags().Changed("capture") {
		d.CaptureIterations = captures
	}
	if cmd.Flags().Changed("dt") {
		d.TimeStep = dt
	}
	if cmd.Flags().Changed("dx") {
		d.SpatialStep = dx
	}
	if cmd.Flags().Changed("dirichlet") {
		d.DirichletValue = dirichlet
	}
	return d, nil
}

func runDiffuse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	d, err := diffusionConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", tui.Title.Render("diffusion"))
	fmt.Fprintf(out, "running %d iterations on %d cells (dt=%g, dx=%g)...\n", d.TotalSteps, d.GridLength, d.TimeStep, d.SpatialStep)

	start := time.Now()
	run, err := experiment.RunDiffusion(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "completed in %v\n\n", time.Since(start))

	if err := snapshotTable(out, run.Snapshots, run.Config.SpatialStep); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n\n", render.SnapshotsASCII(run.Snapshots, 80, 15))

	if err := writeDiffusionOutputs(out, run.Snapshots); err != nil {
		return err
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save("diffusion", run.Params(), run.Metrics, storage.SnapshotRecords(run.Snapshots))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	return nil
}

// snapshotTable prints the field metrics of every snapshot.
func snapshotTable(out io.Writer, snaps []diffusion.Snapshot, spacing float64) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATION\tTIME\tMASS\tPEAK\tWALL FLUX\tNEUMANN RES.")
	ms := metrics.Defaults(spacing)
	for _, s := range snaps {
		for _, m := range ms {
			m.Observe(s)
		}
		v := metrics.Collect(ms)
		fmt.Fprintf(w, "%d\t%g\t%.6g\t%.6g\t%.6g\t%.1e\n",
			s.Iteration, s.Time, v["mass"], v["peak"], v["wall_flux"], s.NeumannResidual())
	}
	return w.Flush()
}

func writeDiffusionOutputs(out io.Writer, snaps []diffusion.Snapshot) error {
	if pngPath != "" {
		opts := render.DefaultChartOptions()
		opts.Title = "Concentration profiles"
		if err := writeFile(pngPath, func(w io.Writer) error {
			return render.SnapshotChart(w, snaps, opts)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", pngPath)
	}
	if svgPath != "" {
		svg, err := render.SnapshotsSVG(snaps, 800, 400)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgPath)
	}
	if aviPath != "" {
		if err := render.WriteAnimation(aviPath, snaps, render.DefaultAnimationOptions()); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%d frames)\n", aviPath, len(snaps))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if preset == "" && configFile == "" {
		return tui.Run(tui.NewMenuModel())
	}

	cfg, err := loadConfig("diffusion")
	if err != nil {
		return err
	}
	d, err := cfg.Diffusion.Build()
	if err != nil {
		return err
	}

	name := preset
	if name == "" {
		name = configFile
	}
	m, err := tui.NewSimModel(name, d, speed)
	if err != nil {
		return err
	}
	return tui.Run(m)
}

func runCompare(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	d := config.DiffusionConfig{
		GridLength:        gridLength,
		SpatialStep:       1,
		TimeStep:          dt,
		TotalSteps:        steps,
		CaptureIterations: captures,
		InitialRegions:    []config.RegionConfig{{Start: blockStart, End: blockEnd, Value: 1}},
	}
	run, err := experiment.RunDiffusion(d)
	if err != nil {
		return err
	}

	results := experiment.CompareImage(run.Snapshots, blockStart, blockEnd, d.SpatialStep)
	fmt.Fprintf(out, "%s\n", tui.Title.Render("numeric vs image-method solution"))
	fmt.Fprintf(out, "block [%d,%d) on %d cells, absorbing wall at index 0\n\n", blockStart, blockEnd, gridLength)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATION\tTIME\tMAX |ERROR|")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%g\t%.3e\n", r.Iteration, r.Time, r.MaxAbsError)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if pngPath != "" && len(results) > 0 {
		last := results[len(results)-1]
		xs := make([]float64, len(last.Numeric))
		for i := range xs {
			xs[i] = float64(i) * d.SpatialStep
		}
		opts := render.DefaultChartOptions()
		opts.Title = fmt.Sprintf("t = %g", last.Time)
		series := []render.Series{
			{Name: "numeric", Values: last.Numeric},
			{Name: "image method", Values: last.Exact},
		}
		if err := writeFile(pngPath, func(w io.Writer) error {
			return render.LineChart(w, xs, series, opts)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nwrote %s\n", pngPath)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
