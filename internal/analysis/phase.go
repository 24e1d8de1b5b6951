package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/delab/internal/sim"
)

var ErrComponent = errors.New("analysis: state component out of range")

type Point struct {
	X, Y float64
}

// PhasePortrait holds data for a 2D phase space plot
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait projects a recorded trajectory onto components xIdx, yIdx.
func NewPhasePortrait(res *sim.Result, xIdx, yIdx int) (*PhasePortrait, error) {
	if len(res.States) == 0 {
		return &PhasePortrait{XIndex: xIdx, YIndex: yIdx}, nil
	}
	dim := len(res.States[0])
	if xIdx < 0 || yIdx < 0 || xIdx >= dim || yIdx >= dim {
		return nil, fmt.Errorf("%w: (%d, %d) for dimension %d", ErrComponent, xIdx, yIdx, dim)
	}

	portrait := &PhasePortrait{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, len(res.States)),
	}
	for i, x := range res.States {
		portrait.Points[i] = Point{X: x[xIdx], Y: x[yIdx]}
	}
	return portrait, nil
}

// Bounds returns the padded bounding box of the points.
func Bounds(points []Point) (minX, maxX, minY, maxY float64) {
	if len(points) == 0 {
		return 0, 1, 0, 1
	}
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := Bounds(portrait.Points)
	rangeX := maxX - minX
	rangeY := maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Axes, where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
