// Package optim searches experiment parameters for the best value of a
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/isingsim/internal/experiment"
)

var (
	ErrNoParams      = errors.New("optim: no parameters to search")
	ErrUnknownParam  = errors.New("optim: unknown parameter")
	ErrMissingMetric = errors.New("optim: metric not reported")
)

// Params are the parameters a grid point sets, by name.
type Params map[string]float64

// Builder turns a grid point into a ready experiment.
type Builder func(params Params) (*experiment.Experiment, error)

// Evaluation is one visited grid point.
type Evaluation struct {
	Params Params
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize picks the largest metric value instead of the smallest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs one experiment per point of the cartesian product of the
// ranges and returns the best point with every evaluation in visiting
// order. Any build or run error aborts the search.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (Evaluation, []Evaluation, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return Evaluation{}, nil, ErrNoParams
	}

	best := Evaluation{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}

	var all []Evaluation
	err := g.searchRecursive(ctx, 0, make(Params), build, metricName, &best, &all)
	if err != nil {
		return best, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current Params,
	build Builder,
	metricName string,
	best *Evaluation,
	all *[]Evaluation,
) error {
	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return err
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val, ok := out.Metrics[metricName]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingMetric, metricName)
		}

		eval := Evaluation{Params: copyParams(current), Value: val}
		*all = append(*all, eval)
		if (g.Maximize && val > best.Value) || (!g.Maximize && val < best.Value) {
			*best = eval
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := copyParams(current)
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, best, all); err != nil {
			return err
		}
	}
	return nil
}

func copyParams(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ConfigBuilder returns a Builder that overrides the named fields of base
// (temperature, size, trials, seed) and sets the experiment up from r.
func ConfigBuilder(base experiment.Config, r *experiment.Registry) Builder {
	return func(params Params) (*experiment.Experiment, error) {
		cfg := base
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			v := params[name]
			switch name {
			case "temperature":
				cfg.Temperature = v
			case "size":
				cfg.Size = int(v)
			case "trials":
				cfg.Trials = int(v)
			case "seed":
				cfg.Seed = int64(v)
			default:
				return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
			}
		}

		exp := experiment.New(cfg)
		if err := exp.SetupFromRegistry(r); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
