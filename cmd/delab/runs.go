package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/delab/internal/render"
	"github.com/san-kum/delab/internal/storage"
	"github.com/san-kum/delab/internal/tui"
)

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tRECORDS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Records,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []storage.Record, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, records, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Fprintf(out, "%s\n", tui.Metric("run", meta.ID))
	fmt.Fprintf(out, "%s\n", tui.Metric("kind", meta.Kind))
	fmt.Fprintf(out, "%s\n\n", tui.Metric("records", fmt.Sprintf("%d", len(records))))

	if meta.Kind == "diffusion" {
		snaps := storage.Snapshots(records)
		fmt.Fprintln(out, render.SnapshotsASCII(snaps, 80, 15))
		if pngPath != "" {
			opts := render.DefaultChartOptions()
			opts.Title = meta.ID
			if err := writeFile(pngPath, func(w io.Writer) error {
				return render.SnapshotChart(w, snaps, opts)
			}); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", pngPath)
		}
		return nil
	}

	times := make([]float64, len(records))
	series := make([]render.Series, len(records[0].Values))
	for i := range series {
		series[i] = render.Series{Name: fmt.Sprintf("x%d", i), Values: make([]float64, len(records))}
	}
	for j, r := range records {
		times[j] = r.Time
		for i := range series {
			if i < len(r.Values) {
				series[i].Values[j] = r.Values[i]
			}
		}
	}
	fmt.Fprintln(out, render.SeriesASCII(series, 80, 10, "state vs time"))

	if pngPath != "" {
		opts := render.DefaultChartOptions()
		opts.Title, opts.XLabel, opts.YLabel = meta.ID, "t", "state"
		if err := writeFile(pngPath, func(w io.Writer) error {
			return render.TimeSeriesChart(w, times, series, opts)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", pngPath)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, records, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(cmd.OutOrStdout(), records)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, records, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), *meta, records)
}
