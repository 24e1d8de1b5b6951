package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/delab/internal/dynamo"
)

const (
	traceWidth  = 70
	traceHeight = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	trailLength = 400
)

// TraceRenderer is a dynamo.Observer that redraws an ODE run in the terminal.
// Two-component states are drawn as a phase-plane trail, one-component
// states as a scrolling strip chart.
type TraceRenderer struct {
	out       io.Writer
	title     string
	labels    []string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	trail     []dynamo.State
	bounds    [4]float64
	started   bool
}

// NewTraceRenderer draws at most frameRate frames per second. A frameRate of
// zero draws every step.
func NewTraceRenderer(out io.Writer, title string, labels []string, frameRate int) *TraceRenderer {
	canvas := make([][]rune, traceHeight)
	for i := range canvas {
		canvas[i] = make([]rune, traceWidth)
	}
	return &TraceRenderer{
		out:       out,
		title:     title,
		labels:    labels,
		frameRate: frameRate,
		canvas:    canvas,
		trail:     make([]dynamo.State, 0, trailLength),
		bounds:    [4]float64{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)},
	}
}

func (r *TraceRenderer) OnStep(x dynamo.State, t float64) {
	r.trail = append(r.trail, x.Clone())
	if len(r.trail) > trailLength {
		r.trail = r.trail[1:]
	}
	r.grow(x, t)

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	if len(x) >= 2 {
		r.drawPhase()
	} else {
		r.drawStrip()
	}
	r.render(x, t)
}

func (r *TraceRenderer) grow(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	h, v := t, x[0]
	if len(x) >= 2 {
		h, v = x[0], x[1]
	}
	r.bounds[0] = math.Min(r.bounds[0], h)
	r.bounds[1] = math.Max(r.bounds[1], h)
	r.bounds[2] = math.Min(r.bounds[2], v)
	r.bounds[3] = math.Max(r.bounds[3], v)
}

func (r *TraceRenderer) project(h, v float64) (int, int) {
	spanH := r.bounds[1] - r.bounds[0]
	spanV := r.bounds[3] - r.bounds[2]
	if spanH == 0 {
		spanH = 1
	}
	if spanV == 0 {
		spanV = 1
	}
	col := int((h - r.bounds[0]) / spanH * float64(traceWidth-1))
	row := traceHeight - 1 - int((v-r.bounds[2])/spanV*float64(traceHeight-1))
	return col, row
}

func (r *TraceRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *TraceRenderer) set(x, y int, c rune) {
	if x >= 0 && x < traceWidth && y >= 0 && y < traceHeight {
		r.canvas[y][x] = c
	}
}

func (r *TraceRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *TraceRenderer) drawPhase() {
	for i := 1; i < len(r.trail); i++ {
		x1, y1 := r.project(r.trail[i-1][0], r.trail[i-1][1])
		x2, y2 := r.project(r.trail[i][0], r.trail[i][1])
		c := '.'
		if i > len(r.trail)/2 {
			c = 'o'
		}
		r.line(x1, y1, x2, y2, c)
	}
	last := r.trail[len(r.trail)-1]
	x, y := r.project(last[0], last[1])
	r.set(x, y, 'O')
}

// drawStrip plots the most recent values left to right on the value axis.
func (r *TraceRenderer) drawStrip() {
	start := max(0, len(r.trail)-traceWidth)
	spanV := r.bounds[3] - r.bounds[2]
	if spanV == 0 {
		spanV = 1
	}
	for i, x := range r.trail[start:] {
		row := traceHeight - 1 - int((x[0]-r.bounds[2])/spanV*float64(traceHeight-1))
		r.set(i, row, '*')
	}
}

func (r *TraceRenderer) label(i int) string {
	if i < len(r.labels) {
		return r.labels[i]
	}
	return fmt.Sprintf("x%d", i)
}

func (r *TraceRenderer) render(x dynamo.State, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2f\n", r.title, t))
	b.WriteString("  " + strings.Repeat("-", traceWidth) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", traceWidth) + "\n")
	b.WriteString(" ")
	for i, v := range x {
		b.WriteString(fmt.Sprintf(" %s=%.4f", r.label(i), v))
	}
	b.WriteString("\n")

	fmt.Fprint(r.out, b.String())
}

func (r *TraceRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *TraceRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
