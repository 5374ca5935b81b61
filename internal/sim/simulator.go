package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/locosim/internal/loco"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "sim",
})

// Simulator plays the host side: it moves the root goal along a path and
// ticks a locomotor at a (possibly irregular) frame rate.
type Simulator struct {
	build     Builder
	settings  loco.Settings
	path      GoalPath
	metrics   []Metric
	observers []Observer
}

func New(build Builder, settings loco.Settings, path GoalPath) *Simulator {
	return &Simulator{
		build:     build,
		settings:  settings,
		path:      path,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// clock produces host frame times.
type clock struct {
	cfg    Config
	rng    *rand.Rand
	t      float64
	paused []bool
}

func newClock(cfg Config) *clock {
	return &clock{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		paused: make([]bool, len(cfg.Pauses)),
	}
}

func (c *clock) next() (dt float64, stalled bool) {
	dt = 1 / c.cfg.FrameRate
	if c.cfg.Jitter > 0 {
		dt *= 1 + c.cfg.Jitter*(2*c.rng.Float64()-1)
	}
	for i, p := range c.cfg.Pauses {
		if !c.paused[i] && p.At <= c.t+dt {
			c.paused[i] = true
			dt += p.Length
			stalled = true
		}
	}
	c.t += dt
	return dt, stalled
}

func (c *clock) done() bool { return c.t >= c.cfg.Duration }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	session, err := s.Start()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	frames := int(math.Ceil(cfg.Duration * cfg.FrameRate))
	result := &Result{
		Samples: make([]Sample, 0, frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	clk := newClock(cfg)
	for !clk.done() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		dt, stalled := clk.next()
		if stalled {
			result.Stalls++
		}
		sample := session.Advance(dt)
		if cfg.ValidateState && !sample.IsValid() {
			err := SimError{Time: clk.t, Frame: result.Frames, Message: "invalid rig state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			log.WithError(err).Warn("stopping run")
			break
		}

		for _, m := range s.metrics {
			m.Observe(&sample)
		}
		for _, obs := range s.observers {
			obs.OnFrame(&sample)
		}

		result.Frames++
		result.SubSteps += sample.SubSteps
		result.Samples = append(result.Samples, sample)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.WithFields(logrus.Fields{
		"path":      s.path.Name(),
		"frames":    result.Frames,
		"sub_steps": result.SubSteps,
	}).Debug("run complete")

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %f", cfg.FrameRate)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Jitter < 0 || cfg.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1), got %f", cfg.Jitter)
	}
	for _, p := range cfg.Pauses {
		if p.Length < 0 {
			return fmt.Errorf("pause length must not be negative, got %f", p.Length)
		}
	}
	return nil
}

// RunWithCallback drives the rig like Run without recording samples or
// metrics. Returning false from callback stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*Sample) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	session, err := s.Start()
	if err != nil {
		return err
	}
	defer session.Close()

	clk := newClock(cfg)
	for !clk.done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dt, _ := clk.next()
		sample := session.Advance(dt)
		if cfg.ValidateState && !sample.IsValid() {
			return fmt.Errorf("invalid rig state at t=%.4f", clk.t)
		}
		if !callback(&sample) {
			return nil
		}
	}
	return nil
}
