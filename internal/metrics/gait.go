package metrics

import (
	"math"
	"math/cmplx"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/sim"
)

// StrideLength is the mean distance between consecutive planted positions
// of each foot.
type StrideLength struct {
	name    string
	planted []mgl64.Vec3
	sum     float64
	strides int
}

func NewStrideLength() *StrideLength {
	return &StrideLength{name: "stride_length"}
}

func (m *StrideLength) Name() string { return m.name }

func (m *StrideLength) Observe(x *sim.Sample) {
	if len(m.planted) != len(x.Feet) {
		m.planted = make([]mgl64.Vec3, len(x.Feet))
		for i, f := range x.Feet {
			m.planted[i] = f.Planted
		}
		return
	}
	for i, f := range x.Feet {
		if d := f.Planted.Sub(m.planted[i]).Len(); d > 1e-9 {
			m.sum += d
			m.strides++
			m.planted[i] = f.Planted
		}
	}
}

func (m *StrideLength) Value() float64 {
	if m.strides == 0 {
		return 0
	}
	return m.sum / float64(m.strides)
}

// Strides is the number of completed steps seen.
func (m *StrideLength) Strides() int { return m.strides }

func (m *StrideLength) Reset() {
	m.planted = nil
	m.sum = 0
	m.strides = 0
}

// PhaseSpread measures how evenly foot phases cover the gait cycle while
// moving: 0 when every foot shares one phase, 1 when they cancel out.
type PhaseSpread struct {
	name    string
	sum     float64
	samples int
}

func NewPhaseSpread() *PhaseSpread {
	return &PhaseSpread{name: "phase_spread"}
}

func (m *PhaseSpread) Name() string { return m.name }

func (m *PhaseSpread) Observe(x *sim.Sample) {
	if x.AtRest || len(x.Feet) < 2 {
		return
	}
	var z complex128
	for _, f := range x.Feet {
		z += cmplx.Rect(1, 2*math.Pi*f.Phase)
	}
	m.sum += 1 - cmplx.Abs(z)/float64(len(x.Feet))
	m.samples++
}

func (m *PhaseSpread) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *PhaseSpread) Reset() {
	m.sum = 0
	m.samples = 0
}

// RestFraction is the share of frames with the whole rig at rest.
type RestFraction struct {
	name    string
	rest    int
	samples int
}

func NewRestFraction() *RestFraction {
	return &RestFraction{name: "rest_fraction"}
}

func (m *RestFraction) Name() string { return m.name }

func (m *RestFraction) Observe(x *sim.Sample) {
	m.samples++
	if x.AtRest {
		m.rest++
	}
}

func (m *RestFraction) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.rest) / float64(m.samples)
}

func (m *RestFraction) Reset() {
	m.rest = 0
	m.samples = 0
}
