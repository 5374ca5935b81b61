package metrics

import (
	"math"

	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/sim"
)

// FootOverlap is the deepest ground-plane penetration between two feet
// while at least one of them is in the air.
type FootOverlap struct {
	name  string
	worst float64
}

func NewFootOverlap() *FootOverlap {
	return &FootOverlap{name: "foot_overlap"}
}

func (m *FootOverlap) Name() string { return m.name }

func (m *FootOverlap) Observe(x *sim.Sample) {
	for i := range x.Feet {
		a := &x.Feet[i]
		for j := i + 1; j < len(x.Feet); j++ {
			b := &x.Feet[j]
			if !a.InSwing && !b.InSwing {
				continue
			}
			depth := a.Radius + b.Radius - geom.FlatDistance(a.Position, b.Position)
			m.worst = math.Max(m.worst, depth)
		}
	}
}

func (m *FootOverlap) Value() float64 { return m.worst }

func (m *FootOverlap) Reset() { m.worst = 0 }

// BobAmplitude is the peak-to-peak vertical pelvis bob.
type BobAmplitude struct {
	name     string
	min, max float64
	seen     bool
}

func NewBobAmplitude() *BobAmplitude {
	return &BobAmplitude{name: "bob_amplitude"}
}

func (m *BobAmplitude) Name() string { return m.name }

func (m *BobAmplitude) Observe(x *sim.Sample) {
	if !m.seen {
		m.min, m.max, m.seen = x.Bob, x.Bob, true
		return
	}
	m.min = math.Min(m.min, x.Bob)
	m.max = math.Max(m.max, x.Bob)
}

func (m *BobAmplitude) Value() float64 {
	if !m.seen {
		return 0
	}
	return m.max - m.min
}

func (m *BobAmplitude) Reset() {
	m.min, m.max, m.seen = 0, 0, false
}
