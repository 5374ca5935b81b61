package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/experiment"
)

// EvalFunc runs one config and returns its metrics.
type EvalFunc func(ctx context.Context, cfg *config.Config) (map[string]float64, error)

// Evaluate runs cfg through the registry with the default metrics.
func Evaluate(registry *experiment.Registry) EvalFunc {
	return func(ctx context.Context, cfg *config.Config) (map[string]float64, error) {
		exp := experiment.New(cfg)
		if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		if len(result.Errors) > 0 {
			return nil, result.Errors[0]
		}
		return result.Metrics, nil
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the search to keep the largest metric value.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	probe := config.DefaultConfig()
	for i, name := range params {
		if _, err := probe.GetParam(name); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search evaluates every combination of parameter values on a copy of base
// and returns the best parameters for metricName along with every trial.
// Failed points are recorded and skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	eval EvalFunc,
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	trials := make([]Trial, 0)

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, eval, metricName, &best, &bestParams, &trials)
	if err != nil {
		return nil, 0, trials, err
	}
	if bestParams == nil {
		return nil, 0, trials, fmt.Errorf("no grid point produced %s", metricName)
	}

	return bestParams, best, trials, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.Maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	eval EvalFunc,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		if err := cfg.ApplyParams(current); err != nil {
			return err
		}

		trial := Trial{Params: current}
		metrics, err := eval(ctx, cfg)
		if err != nil {
			trial.Err = err
			*trials = append(*trials, trial)
			return nil
		}

		val, ok := metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		trial.Value = val
		*trials = append(*trials, trial)

		if g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, eval, metricName, best, bestParams, trials); err != nil {
			return err
		}
	}
	return nil
}
