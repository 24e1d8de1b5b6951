// Package render turns diffusion snapshots and ODE trajectories into
// pictures: PNG charts (go-chart), SVG polylines, terminal plots
// (asciigraph) and MJPEG AVI animations with one frame per snapshot.
//
// All renderers take the same []diffusion.Snapshot the stepper returns, so a
// run can be drawn straight away or reloaded from storage and drawn later.
package render
