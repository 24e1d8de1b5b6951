// Package optim searches parameter grids for the setting that minimises a
// score, such as the error of a diffusion run against its closed form.
package optim

import (
	"context"
	"errors"
	"math"
)

var ErrEmptyGrid = errors.New("optim: empty parameter grid")

// Objective scores one parameter combination. Lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// Trial is one evaluated grid point. Err is set when the objective failed.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination in row-major order and returns the best
// parameters, their score and all trials. NaN scores never win.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, ErrEmptyGrid
	}
	for _, r := range g.ranges {
		if len(r) == 0 {
			return nil, 0, nil, ErrEmptyGrid
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &trials)
	if err != nil {
		return nil, 0, trials, err
	}

	for _, tr := range trials {
		if tr.Err != nil || math.IsNaN(tr.Score) {
			continue
		}
		if bestParams == nil || tr.Score < best {
			best = tr.Score
			bestParams = tr.Params
		}
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		score, err := objective(ctx, current)
		*trials = append(*trials, Trial{Params: current, Score: score, Err: err})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, trials); err != nil {
			return err
		}
	}
	return nil
}
