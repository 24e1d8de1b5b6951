package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/delab/internal/config"
	"github.com/san-kum/delab/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	pngPath    string
	svgPath    string
	saveRun    bool
	liveTrace  bool
	frameRate  int

	// diffuse
	steps     int
	captures  []int
	dx        float64
	dirichlet float64
	aviPath   string
	speed     int

	// predprey
	prey, predator, coupling float64
	phasePNG                 string

	// relax
	p0, p1, q, y0 float64

	// compare
	gridLength int
	blockStart int
	blockEnd   int

	// sweep
	sweepDts  []float64
	sweepTime float64
)

// main registers the delab commands and runs the root command. With no
// subcommand it opens the live diffusion menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "delab",
		Short: "differential equation lab: diffusion, predator-prey and relaxation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(tui.NewMenuModel())
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".delab", "data directory")

	diffuseCmd := &cobra.Command{
		Use:   "diffuse",
		Short: "run the 1D diffusion stepper and capture snapshots",
		Args:  cobra.NoArgs,
		RunE:  runDiffuse,
	}
	diffuseCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	diffuseCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	diffuseCmd.Flags().IntVar(&steps, "steps", config.DefaultTotalSteps, "total iterations")
	diffuseCmd.Flags().IntSliceVar(&captures, "capture", config.DefaultCaptures, "iterations to capture")
	diffuseCmd.Flags().Float64Var(&dt, "dt", config.DefaultTimeStep, "time step")
	diffuseCmd.Flags().Float64Var(&dx, "dx", config.DefaultSpatialStep, "spatial step")
	diffuseCmd.Flags().Float64Var(&dirichlet, "dirichlet", 0, "value held at index 0")
	diffuseCmd.Flags().StringVar(&pngPath, "png", "", "write snapshot chart to PNG")
	diffuseCmd.Flags().StringVar(&svgPath, "svg", "", "write snapshot chart to SVG")
	diffuseCmd.Flags().StringVar(&aviPath, "avi", "", "write snapshot animation to MJPEG AVI")
	diffuseCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a diffusion run in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().IntVar(&speed, "speed", 100, "iterations per frame")

	predpreyCmd := &cobra.Command{
		Use:   "predprey",
		Short: "integrate the predator-prey system",
		Args:  cobra.NoArgs,
		RunE:  runPredPrey,
	}
	predpreyCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	predpreyCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	predpreyCmd.Flags().Float64Var(&prey, "prey", 0.1, "initial prey population")
	predpreyCmd.Flags().Float64Var(&predator, "predator", 0.1, "initial predator population")
	predpreyCmd.Flags().Float64Var(&coupling, "coupling", 1.0, "quartic exchange coefficient")
	predpreyCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	predpreyCmd.Flags().Float64Var(&dt, "dt", config.DefaultODEDt, "timestep")
	predpreyCmd.Flags().Float64Var(&duration, "time", config.DefaultODEDuration, "duration")
	predpreyCmd.Flags().StringVar(&pngPath, "png", "", "write populations over time to PNG")
	predpreyCmd.Flags().StringVar(&phasePNG, "phase-png", "", "write phase portrait to PNG")
	predpreyCmd.Flags().StringVar(&svgPath, "svg", "", "write phase portrait to SVG")
	predpreyCmd.Flags().BoolVar(&liveTrace, "live", false, "draw the trajectory while integrating")
	predpreyCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	predpreyCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")

	relaxCmd := &cobra.Command{
		Use:   "relax",
		Short: "integrate y' = q - (p0 + p1 t) y",
		Args:  cobra.NoArgs,
		RunE:  runRelax,
	}
	relaxCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	relaxCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	relaxCmd.Flags().Float64Var(&p0, "p0", 2, "constant part of p")
	relaxCmd.Flags().Float64Var(&p1, "p1", 0, "slope of p in t")
	relaxCmd.Flags().Float64Var(&q, "q", 1, "forcing")
	relaxCmd.Flags().Float64Var(&y0, "y0", 0, "initial value")
	relaxCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	relaxCmd.Flags().Float64Var(&dt, "dt", config.DefaultODEDt, "timestep")
	relaxCmd.Flags().Float64Var(&duration, "time", 4, "duration")
	relaxCmd.Flags().StringVar(&pngPath, "png", "", "write numeric and closed-form curves to PNG")
	relaxCmd.Flags().BoolVar(&liveTrace, "live", false, "draw the trajectory while integrating")
	relaxCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	relaxCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare a released block against the image-method closed form",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}
	compareCmd.Flags().IntVar(&gridLength, "grid", 200, "grid length")
	compareCmd.Flags().IntVar(&blockStart, "start", 10, "first cell of the block")
	compareCmd.Flags().IntVar(&blockEnd, "end", 20, "cell after the block")
	compareCmd.Flags().IntVar(&steps, "steps", 1000, "total iterations")
	compareCmd.Flags().IntSliceVar(&captures, "capture", []int{100, 300, 1000}, "iterations to compare")
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultTimeStep, "time step")
	compareCmd.Flags().StringVar(&pngPath, "png", "", "write the last comparison to PNG")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the time step and score each run against the image-method solution",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&gridLength, "grid", 200, "grid length")
	sweepCmd.Flags().IntVar(&blockStart, "start", 10, "first cell of the block")
	sweepCmd.Flags().IntVar(&blockEnd, "end", 20, "cell after the block")
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dt", []float64{0.05, 0.1, 0.2, 0.4, 0.5, 0.6}, "time steps to try")
	sweepCmd.Flags().Float64Var(&sweepTime, "time", 60, "simulated time to compare at")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "also write the plot to PNG")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run records to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and records to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(diffuseCmd, liveCmd, predpreyCmd, relaxCmd, compareCmd, sweepCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig starts from the defaults, replaces them with the preset when one
// is named, and replaces that with the config file when one is given.
func loadConfig(model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(model, preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	return cfg, nil
}
