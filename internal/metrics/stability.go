package metrics

import (
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/sim"
)

// Tracking is the fraction of frames in which the body stays within
// threshold of the root goal on the ground plane.
type Tracking struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewTracking(threshold float64) *Tracking {
	return &Tracking{
		name:      "tracking",
		threshold: threshold,
	}
}

func (s *Tracking) Name() string {
	return s.name
}

func (s *Tracking) Observe(x *sim.Sample) {
	s.samples++
	if geom.FlatDistance(x.Body.Translation, x.Goal.Translation) > s.threshold {
		s.violations++
	}
}

func (s *Tracking) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Tracking) Reset() {
	s.violations = 0
	s.samples = 0
}

// GoalLag is the mean ground-plane distance from body to root goal.
type GoalLag struct {
	name    string
	sum     float64
	samples int
}

func NewGoalLag() *GoalLag {
	return &GoalLag{name: "goal_lag"}
}

func (g *GoalLag) Name() string { return g.name }

func (g *GoalLag) Observe(x *sim.Sample) {
	g.sum += geom.FlatDistance(x.Body.Translation, x.Goal.Translation)
	g.samples++
}

func (g *GoalLag) Value() float64 {
	if g.samples == 0 {
		return 0
	}
	return g.sum / float64(g.samples)
}

func (g *GoalLag) Reset() {
	g.sum = 0
	g.samples = 0
}
