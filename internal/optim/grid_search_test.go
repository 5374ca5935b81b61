package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/experiment"
	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetLevel(logrus.ErrorLevel)
}

// bowl scores configs by distance from goal speed 50 and step height 8.
func bowl(ctx context.Context, cfg *config.Config) (map[string]float64, error) {
	ds := cfg.Goal.Speed - 50
	dh := cfg.Stepping.StepHeight - 8
	return map[string]float64{"bowl": ds*ds + dh*dh}, nil
}

func TestGridSearchFindsMinimum(t *testing.T) {
	g, err := NewGridSearch(
		[]string{"goal.speed", "stepping.step_height"},
		[][]float64{{30, 50, 70}, {4, 8, 12}},
	)
	if err != nil {
		t.Fatal(err)
	}

	base := config.DefaultConfig()
	params, best, trials, err := g.Search(context.Background(), base, bowl, "bowl")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(trials) != 9 {
		t.Errorf("expected 9 trials, got %d", len(trials))
	}
	if best != 0 || params["goal.speed"] != 50 || params["stepping.step_height"] != 8 {
		t.Errorf("expected the bowl minimum, got %v (%f)", params, best)
	}
	if base.Goal.Speed != config.DefaultGoalSpeed {
		t.Error("search modified the base config")
	}
}

func TestGridSearchMaximize(t *testing.T) {
	g, _ := NewGridSearch([]string{"goal.speed"}, [][]float64{{30, 50, 90}})
	g.Maximize = true

	params, best, _, err := g.Search(context.Background(), config.DefaultConfig(), bowl, "bowl")
	if err != nil {
		t.Fatal(err)
	}
	if params["goal.speed"] != 90 || best != 1600 {
		t.Errorf("expected speed 90, got %v (%f)", params, best)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	boom := errors.New("boom")
	eval := func(ctx context.Context, cfg *config.Config) (map[string]float64, error) {
		if cfg.Goal.Speed > 60 {
			return nil, boom
		}
		return bowl(ctx, cfg)
	}

	g, _ := NewGridSearch([]string{"goal.speed"}, [][]float64{{40, 80}})
	params, _, trials, err := g.Search(context.Background(), config.DefaultConfig(), eval, "bowl")
	if err != nil {
		t.Fatal(err)
	}
	if params["goal.speed"] != 40 {
		t.Errorf("expected the only good point, got %v", params)
	}
	if !errors.Is(trials[1].Err, boom) {
		t.Errorf("expected the failure to be recorded, got %v", trials[1].Err)
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"goal.speed"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"nope"}, [][]float64{{1}}); !errors.Is(err, config.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := NewGridSearch([]string{"goal.speed"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}

	g, _ := NewGridSearch([]string{"goal.speed"}, [][]float64{{40}})
	if _, _, _, err := g.Search(context.Background(), config.DefaultConfig(), bowl, "missing"); err == nil {
		t.Error("expected error for unknown metric")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := g.Search(ctx, config.DefaultConfig(), bowl, "bowl"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 1

	metrics, err := Evaluate(experiment.NewRegistry())(context.Background(), cfg)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if _, ok := metrics["tracking"]; !ok {
		t.Errorf("expected default metrics, got %v", metrics)
	}

	cfg.Path = "nowhere"
	if _, err := Evaluate(experiment.NewRegistry())(context.Background(), cfg); err == nil {
		t.Error("expected setup error for unknown path")
	}
}
