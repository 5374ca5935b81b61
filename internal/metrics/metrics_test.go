package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/sim"
)

func sampleWithFeet(feet ...sim.FootSample) *sim.Sample {
	return &sim.Sample{
		Goal: geom.Identity(),
		Body: geom.Identity(),
		Feet: feet,
	}
}

func TestStrideLength(t *testing.T) {
	m := NewStrideLength()

	m.Observe(sampleWithFeet(sim.FootSample{Planted: mgl64.Vec3{0, 0, 0}}))
	m.Observe(sampleWithFeet(sim.FootSample{Planted: mgl64.Vec3{0, 0, 0}}))
	if m.Strides() != 0 {
		t.Fatalf("expected no strides, got %d", m.Strides())
	}

	m.Observe(sampleWithFeet(sim.FootSample{Planted: mgl64.Vec3{30, 0, 0}}))
	m.Observe(sampleWithFeet(sim.FootSample{Planted: mgl64.Vec3{80, 0, 0}}))
	if m.Strides() != 2 {
		t.Fatalf("expected 2 strides, got %d", m.Strides())
	}
	if math.Abs(m.Value()-40) > 1e-9 {
		t.Errorf("expected mean stride 40, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 || m.Strides() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPhaseSpread(t *testing.T) {
	tests := []struct {
		name   string
		phases []float64
		want   float64
	}{
		{"in step", []float64{0.2, 0.2}, 0},
		{"opposed", []float64{0, 0.5}, 1},
		{"tripod", []float64{0, 0.5, 0, 0.5, 0, 0.5}, 1},
		{"quarter", []float64{0, 0.25, 0.5, 0.75}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPhaseSpread()
			feet := make([]sim.FootSample, len(tt.phases))
			for i, p := range tt.phases {
				feet[i].Phase = p
			}
			m.Observe(sampleWithFeet(feet...))
			if math.Abs(m.Value()-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, m.Value())
			}
		})
	}
}

func TestPhaseSpreadSkipsRest(t *testing.T) {
	m := NewPhaseSpread()
	s := sampleWithFeet(sim.FootSample{Phase: 0}, sim.FootSample{Phase: 0.5})
	s.AtRest = true
	m.Observe(s)
	if m.Value() != 0 {
		t.Errorf("expected 0, got %f", m.Value())
	}
}

func TestRestFraction(t *testing.T) {
	m := NewRestFraction()
	for i := 0; i < 4; i++ {
		s := sampleWithFeet()
		s.AtRest = i%2 == 0
		m.Observe(s)
	}
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestFootOverlap(t *testing.T) {
	m := NewFootOverlap()

	planted := sampleWithFeet(
		sim.FootSample{Position: mgl64.Vec3{0, 0, 0}, Radius: 5},
		sim.FootSample{Position: mgl64.Vec3{4, 0, 0}, Radius: 5},
	)
	m.Observe(planted)
	if m.Value() != 0 {
		t.Errorf("planted feet should not count, got %f", m.Value())
	}

	swinging := sampleWithFeet(
		sim.FootSample{Position: mgl64.Vec3{0, 0, 0}, Radius: 5, InSwing: true},
		sim.FootSample{Position: mgl64.Vec3{7, 0, 9}, Radius: 5},
	)
	m.Observe(swinging)
	if math.Abs(m.Value()-3) > 1e-9 {
		t.Errorf("expected overlap 3, got %f", m.Value())
	}
}

func TestBobAmplitude(t *testing.T) {
	m := NewBobAmplitude()
	for _, b := range []float64{0, -2, 1.5, -0.5} {
		s := sampleWithFeet()
		s.Bob = b
		m.Observe(s)
	}
	if math.Abs(m.Value()-3.5) > 1e-9 {
		t.Errorf("expected 3.5, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestTrackingAndLag(t *testing.T) {
	tr := NewTracking(10)
	lag := NewGoalLag()

	for _, x := range []float64{0, 5, 20, 15} {
		s := sampleWithFeet()
		s.Body = geom.FromPosition(mgl64.Vec3{x, 0, 100})
		tr.Observe(s)
		lag.Observe(s)
	}
	if tr.Value() != 0.5 {
		t.Errorf("tracking: expected 0.5, got %f", tr.Value())
	}
	if math.Abs(lag.Value()-10) > 1e-9 {
		t.Errorf("lag: expected 10, got %f", lag.Value())
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
