package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/ground"
	"github.com/san-kum/locosim/internal/metrics"
	"github.com/san-kum/locosim/internal/sim"
)

type Registry struct {
	paths map[string]func(config.GoalConfig) sim.GoalPath
	gaits map[string]Gait
}

func NewRegistry() *Registry {
	r := &Registry{
		paths: make(map[string]func(config.GoalConfig) sim.GoalPath),
		gaits: make(map[string]Gait),
	}

	r.paths["idle"] = func(g config.GoalConfig) sim.GoalPath { return Idle{} }
	r.paths["line"] = func(g config.GoalConfig) sim.GoalPath { return Line{Speed: g.Speed} }
	r.paths["circle"] = func(g config.GoalConfig) sim.GoalPath {
		return Circle{Speed: g.Speed, Radius: g.Radius}
	}
	r.paths["stop_and_go"] = func(g config.GoalConfig) sim.GoalPath {
		return StopAndGo{Speed: g.Speed, Period: g.Period}
	}
	r.paths["zigzag"] = func(g config.GoalConfig) sim.GoalPath {
		return Zigzag{Speed: g.Speed, Amplitude: g.Amplitude, Period: g.Period}
	}

	r.gaits["alternate"] = alternate
	r.gaits["tripod"] = alternate
	r.gaits["wave"] = wave

	return r
}

func (r *Registry) GetPath(name string, goal config.GoalConfig) (sim.GoalPath, error) {
	fn, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("unknown path: %s", name)
	}
	return fn(goal), nil
}

func (r *Registry) GetGround(name string) (ground.Surface, error) {
	return ground.ByName(name)
}

func (r *Registry) GetGait(name string) (Gait, error) {
	g, ok := r.gaits[name]
	if !ok {
		return nil, fmt.Errorf("unknown gait: %s", name)
	}
	return g, nil
}

func (r *Registry) ListPaths() []string {
	return sortedKeys(r.paths)
}

func (r *Registry) ListGaits() []string {
	return sortedKeys(r.gaits)
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
