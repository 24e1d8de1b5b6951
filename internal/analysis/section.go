package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/delab/internal/sim"
)

// Section records the points where one state component crosses a threshold
// upwards.
type Section struct {
	Times  []float64
	Points []float64
}

// NewSection scans res for upward crossings of threshold by component
// crossIdx and records component recordIdx at each, interpolated linearly
// between the bracketing samples.
func NewSection(res *sim.Result, crossIdx int, threshold float64, recordIdx int) (*Section, error) {
	section := &Section{}
	if len(res.States) == 0 {
		return section, nil
	}
	dim := len(res.States[0])
	if crossIdx < 0 || recordIdx < 0 || crossIdx >= dim || recordIdx >= dim {
		return nil, fmt.Errorf("%w: (%d, %d) for dimension %d", ErrComponent, crossIdx, recordIdx, dim)
	}

	for i := 1; i < len(res.States); i++ {
		prev, curr := res.States[i-1][crossIdx], res.States[i][crossIdx]
		if !(prev < threshold && curr >= threshold) {
			continue
		}

		frac := (threshold - prev) / (curr - prev)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		t := res.Times[i-1] + frac*(res.Times[i]-res.Times[i-1])
		v := res.States[i-1][recordIdx] + frac*(res.States[i][recordIdx]-res.States[i-1][recordIdx])

		section.Times = append(section.Times, t)
		section.Points = append(section.Points, v)
	}
	return section, nil
}

// Period is the mean spacing between crossings, or 0 with fewer than two.
func (s *Section) Period() float64 {
	if len(s.Times) < 2 {
		return 0
	}
	return (s.Times[len(s.Times)-1] - s.Times[0]) / float64(len(s.Times)-1)
}
