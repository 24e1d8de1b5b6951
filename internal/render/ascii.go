package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/delab/internal/diffusion"
)

var terminalColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Orange,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Purple,
	asciigraph.Brown,
	asciigraph.Pink,
	asciigraph.Gray,
}

func terminalColor(i int) asciigraph.AnsiColor { return terminalColors[i%len(terminalColors)] }

// SnapshotsASCII plots every snapshot on one terminal chart and appends a
// coloured legend line.
func SnapshotsASCII(snaps []diffusion.Snapshot, width, height int) string {
	if len(snaps) == 0 {
		return ""
	}

	data := make([][]float64, len(snaps))
	colors := make([]asciigraph.AnsiColor, len(snaps))
	legend := make([]string, len(snaps))
	for i, s := range snaps {
		data[i] = s.Values
		colors[i] = terminalColor(i)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(int(colors[i]))))
		legend[i] = style.Render("■ " + SnapshotLabel(s))
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption("concentration vs position index"),
	)
	return graph + "\n" + strings.Join(legend, "  ")
}

// SeriesASCII plots ODE components over time.
func SeriesASCII(series []Series, width, height int, caption string) string {
	if len(series) == 0 {
		return ""
	}

	data := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	legend := make([]string, 0, len(series))
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		data = append(data, s.Values)
		colors = append(colors, terminalColor(i))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(int(terminalColor(i)))))
		legend = append(legend, style.Render("■ "+s.Name))
	}
	if len(data) == 0 {
		return ""
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
	return graph + "\n" + strings.Join(legend, "  ")
}
