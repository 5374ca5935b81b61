package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/loco"
	"github.com/san-kum/locosim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	build     sim.Builder
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the path, ground and gait named by the config and attaches
// metrics to a fresh simulator.
func (e *Experiment) Setup(reg *Registry, metrics []sim.Metric) error {
	surface, err := reg.GetGround(e.cfg.Ground)
	if err != nil {
		return err
	}
	path, err := reg.GetPath(e.cfg.Path, e.cfg.Goal)
	if err != nil {
		return err
	}
	g, err := reg.GetGait(e.cfg.Rig.Gait)
	if err != nil {
		return err
	}
	if _, err := Layout(e.cfg.Rig, g); err != nil {
		return err
	}

	cfg := e.cfg
	e.build = func(start geom.Transform) (*loco.Locomotor, error) {
		return BuildRig(cfg, g, surface, start)
	}
	e.simulator = sim.New(e.build, cfg.Settings(), onGround{path: path, surface: surface})
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

// SimConfig is the host timing described by the config.
func (e *Experiment) SimConfig() sim.Config {
	pauses := make([]sim.Pause, len(e.cfg.Pauses))
	for i, p := range e.cfg.Pauses {
		pauses[i] = sim.Pause{At: p.At, Length: p.Length}
	}
	return sim.Config{
		FrameRate:     e.cfg.FrameRate,
		Duration:      e.cfg.Duration,
		Jitter:        e.cfg.Jitter,
		Seed:          e.cfg.Seed,
		Pauses:        pauses,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
