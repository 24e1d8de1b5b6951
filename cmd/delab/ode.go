package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/delab/internal/analysis"
	"github.com/san-kum/delab/internal/analytic"
	"github.com/san-kum/delab/internal/experiment"
	"github.com/san-kum/delab/internal/physics"
	"github.com/san-kum/delab/internal/render"
	"github.com/san-kum/delab/internal/sim"
	"github.com/san-kum/delab/internal/storage"
	"github.com/san-kum/delab/internal/tui"
)

// runODE sets up and runs one experiment, optionally drawing it live, and
// stores it when --save is given.
func runODE(cmd *cobra.Command, cfg experiment.Config, labels []string) (*experiment.Experiment, *sim.Result, error) {
	out := cmd.OutOrStdout()

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, err
	}

	var trace *tui.TraceRenderer
	if liveTrace {
		trace = tui.NewTraceRenderer(out, cfg.Model, labels, frameRate)
		exp.GetSimulator().AddObserver(trace)
		trace.Start()
	}

	fmt.Fprintf(out, "running %s simulation...\n", cfg.Model)
	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if trace != nil {
		trace.Stop()
	}
	if err != nil {
		return nil, nil, err
	}
	fmt.Fprintf(out, "completed in %v\n", time.Since(start))
	fmt.Fprintf(out, "%s\n", tui.Metric("steps", fmt.Sprintf("%d", result.StepsTaken)))
	for _, e := range result.Errors {
		fmt.Fprintf(out, "%s\n", tui.StatusError.Render(e.Error()))
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return nil, nil, err
		}
		metrics := map[string]float64{"steps": float64(result.StepsTaken)}
		if _, ok := exp.System().(*physics.PredPrey); ok {
			metrics["invariant_drift"] = result.InvariantDrift
		}
		runID, err := st.Save(cfg.Model, exp.Params(), metrics, storage.ResultRecords(result))
		if err != nil {
			return nil, nil, err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	return exp, result, nil
}

func runPredPrey(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig("predprey")
	if err != nil {
		return err
	}
	c := cfg.PredPrey

	// CLI flags override config
	if cmd.Flags().Changed("prey") {
		c.Prey = prey
	}
	if cmd.Flags().Changed("predator") {
		c.Predator = predator
	}
	if cmd.Flags().Changed("coupling") {
		c.Coupling = coupling
	}
	if cmd.Flags().Changed("integrator") {
		c.Integrator = integrator
	}
	if cmd.Flags().Changed("dt") {
		c.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		c.Duration = duration
	}

	labels := []string{"prey", "predator"}
	exp, result, err := runODE(cmd, experiment.FromPredPrey(c), labels)
	if err != nil {
		return err
	}

	pp := exp.System().(*physics.PredPrey)
	ex, ey := pp.Equilibrium()
	fmt.Fprintf(out, "%s\n", tui.Metric("equilibrium", fmt.Sprintf("(%.6f, %.6f)", ex, ey)))
	if c.Coupling == 0 {
		fmt.Fprintf(out, "%s\n", tui.Metric("V drift", fmt.Sprintf("%.3e", result.InvariantDrift)))
	}
	if sec, err := analysis.NewSection(result, 0, ex, 1); err == nil && sec.Period() > 0 {
		fmt.Fprintf(out, "%s\n", tui.Metric("period", fmt.Sprintf("%.4f (%d returns)", sec.Period(), len(sec.Times))))
	}

	portrait, err := analysis.NewPhasePortrait(result, 0, 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", tui.Subtle.Render("phase portrait (prey → predator ↑)"))
	fmt.Fprint(out, analysis.PhasePortraitToASCII(portrait, 60, 20))
	series := []render.Series{
		{Name: labels[0], Values: result.Column(0)},
		{Name: labels[1], Values: result.Column(1)},
	}
	fmt.Fprintf(out, "\n%s\n\n", render.SeriesASCII(series, 80, 10, "population vs time"))

	if pngPath != "" {
		opts := render.DefaultChartOptions()
		opts.Title, opts.XLabel, opts.YLabel = "Predator-prey", "t", "population"
		if err := writeFile(pngPath, func(w io.Writer) error {
			return render.TimeSeriesChart(w, result.Times, series, opts)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", pngPath)
	}
	if phasePNG != "" {
		opts := render.DefaultChartOptions()
		opts.Title, opts.XLabel, opts.YLabel = "Phase portrait", "prey", "predator"
		if err := writeFile(phasePNG, func(w io.Writer) error {
			return render.PhaseChart(w, portrait, opts)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", phasePNG)
	}
	if svgPath != "" {
		svg := render.TrajectoryToSVG(portrait.Points, 600, 600, "#00ff88")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgPath)
	}
	return nil
}

// closedForm returns the exact solution when one is known for the
// parameters: constant p, or p = t with no forcing.
func closedForm(p0, p1, q, y0 float64) (func(float64) float64, bool) {
	switch {
	case p1 == 0 && p0 != 0:
		return func(t float64) float64 { return analytic.Relaxation(p0, q, y0, t) }, true
	case p0 == 0 && q == 0 && p1 == 1:
		return func(t float64) float64 { return analytic.GaussianDecay(y0, t) }, true
	}
	return nil, false
}

func runRelax(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig("relaxation")
	if err != nil {
		return err
	}
	c := cfg.Relaxation

	// CLI flags override config
	if cmd.Flags().Changed("p0") {
		c.P0 = p0
	}
	if cmd.Flags().Changed("p1") {
		c.P1 = p1
	}
	if cmd.Flags().Changed("q") {
		c.Q = q
	}
	if cmd.Flags().Changed("y0") {
		c.Y0 = y0
	}
	if cmd.Flags().Changed("integrator") {
		c.Integrator = integrator
	}
	if cmd.Flags().Changed("dt") {
		c.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		c.Duration = duration
	}

	_, result, err := runODE(cmd, experiment.FromRelaxation(c), []string{"y"})
	if err != nil {
		return err
	}

	numeric := result.Column(0)
	last := len(numeric) - 1
	fmt.Fprintf(out, "%s\n", tui.Metric("y(end)", fmt.Sprintf("%.8f at t=%g", numeric[last], result.Times[last])))

	series := []render.Series{{Name: "numeric", Values: numeric}}
	if exact, ok := closedForm(c.P0, c.P1, c.Q, c.Y0); ok {
		ys := make([]float64, len(result.Times))
		maxErr := 0.0
		for i, t := range result.Times {
			ys[i] = exact(t)
			maxErr = math.Max(maxErr, math.Abs(ys[i]-numeric[i]))
		}
		series = append(series, render.Series{Name: "closed form", Values: ys})
		fmt.Fprintf(out, "%s\n", tui.Metric("max |error|", fmt.Sprintf("%.3e", maxErr)))
	}
	if c.P1 == 0 && c.P0 != 0 {
		a := analytic.RelaxationAsymptotes(c.P0, c.Q, c.Y0)
		fmt.Fprintf(out, "%s\n", tui.Metric("initial slope", fmt.Sprintf("%g", a.Slope)))
		fmt.Fprintf(out, "%s\n", tui.Metric("limit q/p", fmt.Sprintf("%g", a.Limit)))
		limit := make([]float64, len(result.Times))
		for i := range limit {
			limit[i] = a.Limit
		}
		series = append(series, render.Series{Name: "limit", Values: limit})
	}
	fmt.Fprintf(out, "\n%s\n\n", render.SeriesASCII(series, 80, 12, "y vs time"))

	if pngPath != "" {
		opts := render.DefaultChartOptions()
		opts.Title, opts.XLabel, opts.YLabel = "Relaxation", "t", "y"
		if err := writeFile(pngPath, func(w io.Writer) error {
			return render.TimeSeriesChart(w, result.Times, series, opts)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", pngPath)
	}
	return nil
}
