package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/delab/internal/analysis"
	"github.com/san-kum/delab/internal/diffusion"
)

func hex(i int) string {
	c := color(i)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SnapshotsSVG draws one polyline per snapshot on a shared value range.
func SnapshotsSVG(snaps []diffusion.Snapshot, width, height int) (string, error) {
	if len(snaps) == 0 || len(snaps[0].Values) < 2 {
		return "", ErrNoData
	}
	lo, hi, err := valueRange(snaps)
	if err != nil {
		return "", err
	}
	n := len(snaps[0].Values)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	for i, s := range snaps {
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, hex(i)))
		for j, v := range s.Values {
			x := float64(j) / float64(n-1) * float64(width)
			y := float64(height) - (v-lo)/(hi-lo)*float64(height)
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString(`"/>` + "\n")
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" font-family="sans-serif" font-size="12" fill="%s">%s</text>`+"\n",
			16*(i+1), hex(i), SnapshotLabel(s)))
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// TrajectoryToSVG creates an SVG path from phase-plane points
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX, minY, maxY := analysis.Bounds(points)
	rangeX := maxX - minX
	rangeY := maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
