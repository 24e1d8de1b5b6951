package render

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"github.com/icza/mjpeg"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/san-kum/delab/internal/diffusion"
)

type AnimationOptions struct {
	ChartOptions
	FPS     int
	Quality int
}

func DefaultAnimationOptions() AnimationOptions {
	opts := DefaultChartOptions()
	opts.Width, opts.Height = 640, 360
	return AnimationOptions{ChartOptions: opts, FPS: 2, Quality: 90}
}

// WriteAnimation writes an MJPEG AVI to path with one frame per snapshot.
// Every frame shares the value range of the whole run so the curves are
// comparable frame to frame.
func WriteAnimation(path string, snaps []diffusion.Snapshot, opts AnimationOptions) error {
	if len(snaps) == 0 {
		return ErrNoData
	}
	if opts.FPS <= 0 {
		opts.FPS = 1
	}

	lo, hi, err := valueRange(snaps)
	if err != nil {
		return err
	}

	aw, err := mjpeg.New(path, int32(opts.Width), int32(opts.Height), int32(opts.FPS))
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}

	for i, s := range snaps {
		frame, err := renderFrame(s, opts, lo, hi)
		if err != nil {
			aw.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := aw.AddFrame(frame); err != nil {
			aw.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return aw.Close()
}

func renderFrame(s diffusion.Snapshot, opts AnimationOptions, lo, hi float64) ([]byte, error) {
	graph := snapshotGraph([]diffusion.Snapshot{s}, opts.ChartOptions, lo, hi)

	var pngBuf bytes.Buffer
	if err := graph.Render(chart.PNG, &pngBuf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&pngBuf)
	if err != nil {
		return nil, err
	}

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, err
	}
	return jpegBuf.Bytes(), nil
}
