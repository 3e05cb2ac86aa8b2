package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/experiment"
)

// Objective names the run metric a search scores.
type Objective struct {
	Metric   string
	Maximize bool
}

// better reports whether a beats b under o.
func (o Objective) better(a, b float64) bool {
	if o.Maximize {
		return a > b
	}
	return a < b
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// GridSearch tries every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Points enumerates the grid, varying the last parameter fastest.
func (g *GridSearch) Points() []map[string]float64 {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil
	}
	var out []map[string]float64
	g.enumerate(0, make(map[string]float64, len(g.paramNames)), &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}
	for _, v := range g.ranges[depth] {
		current[g.paramNames[depth]] = v
		g.enumerate(depth+1, current, out)
	}
}

// Search builds and runs one experiment per grid point, spread over all
// CPUs, and returns the best trial along with every trial in grid order.
// Points whose build or run fails are kept with Err set and never win.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*experiment.Experiment, error),
	obj Objective,
) (Trial, []Trial, error) {
	points := g.Points()
	if len(points) == 0 {
		return Trial{}, nil, errors.New("optim: empty search grid")
	}

	trials := make([]Trial, len(points))
	dynamo.ParallelFor(len(points), 1, func(start, end int) {
		for i := start; i < end; i++ {
			trials[i] = runTrial(ctx, points[i], build, obj.Metric)
		}
	})

	best := Trial{Score: math.NaN()}
	for _, t := range trials {
		if t.Err != nil {
			continue
		}
		if math.IsNaN(best.Score) || obj.better(t.Score, best.Score) {
			best = t
		}
	}
	if math.IsNaN(best.Score) {
		return Trial{}, trials, fmt.Errorf("optim: no grid point completed: %w", trials[0].Err)
	}
	return best, trials, nil
}

func runTrial(
	ctx context.Context,
	params map[string]float64,
	build func(map[string]float64) (*experiment.Experiment, error),
	metric string,
) Trial {
	t := Trial{Params: params}
	exp, err := build(params)
	if err != nil {
		t.Err = err
		return t
	}
	result, err := exp.Run(ctx)
	if err != nil {
		t.Err = err
		return t
	}
	v, ok := result.Metrics[metric]
	if !ok {
		t.Err = fmt.Errorf("optim: run has no metric %q", metric)
		return t
	}
	t.Score = v
	return t
}
