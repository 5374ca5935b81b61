package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/experiment"
	"github.com/san-kum/locosim/internal/sim"
	"github.com/san-kum/locosim/internal/storage"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "automation",
})

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. The base config comes from Preset ("rig/name"),
// else from the Config file, else the defaults; the remaining fields
// override it when set.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Path     string             `yaml:"path"`
	Ground   string             `yaml:"ground"`
	Duration float64            `yaml:"duration"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// StepConfig resolves the config a step runs with.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Preset != "":
		rig, name, ok := strings.Cut(step.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want rig/name", step.Preset)
		}
		cfg = config.GetPreset(rig, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	case step.Config != "":
		loaded, err := config.Load(step.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if step.Path != "" {
		cfg.Path = step.Path
	}
	if step.Ground != "" {
		cfg.Ground = step.Ground
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.SaveAs != "" {
		cfg.Name = step.SaveAs
	}
	if err := cfg.ApplyParams(step.Params); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps with SaveAs are stored when
// store is not nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		log.WithFields(logrus.Fields{
			"step":  i + 1,
			"of":    len(scenario.Steps),
			"name":  cfg.Name,
			"legs":  cfg.Rig.Legs,
			"path":  cfg.Path,
			"gait":  cfg.Rig.Gait,
			"scene": scenario.Name,
		}).Info("running step")

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: cfg.Name, Result: result}
		if step.SaveAs != "" && store != nil {
			sr.RunID, err = store.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs the host timing of one setup: every trial draws
// a jitter up to MaxJitter and one stall up to MaxPause seconds long.
type MonteCarloConfig struct {
	Base      *config.Config
	Trials    int
	Seed      int64
	MaxJitter float64
	MaxPause  float64
	// MaxOverlap is the deepest foot interpenetration still counted as
	// stable.
	MaxOverlap float64
}

type MonteCarloResult struct {
	Trial   int
	Jitter  float64
	Pause   config.Pause
	Stable  bool
	Metrics map[string]float64
}

// RunMonteCarlo runs the trials one after another.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.Trials)
	rng := rand.New(rand.NewSource(cfg.Seed))

	for trial := 0; trial < cfg.Trials; trial++ {
		run := cfg.Base.Clone()
		run.Seed = cfg.Seed + int64(trial)
		run.Jitter = rng.Float64() * cfg.MaxJitter
		pause := config.Pause{
			At:     rng.Float64() * run.Duration,
			Length: rng.Float64() * cfg.MaxPause,
		}
		run.Pauses = append(run.Pauses, pause)

		exp := experiment.New(run)
		if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		stable := len(result.Errors) == 0
		if cfg.MaxOverlap > 0 && result.Metrics["foot_overlap"] > cfg.MaxOverlap {
			stable = false
		}

		results = append(results, MonteCarloResult{
			Trial:   trial,
			Jitter:  run.Jitter,
			Pause:   pause,
			Stable:  stable,
			Metrics: result.Metrics,
		})

		if (trial+1)%10 == 0 {
			log.WithField("done", trial+1).WithField("of", cfg.Trials).Info("monte carlo progress")
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
