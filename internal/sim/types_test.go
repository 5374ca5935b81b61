package sim

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/loco"
)

func TestSample_IsValid(t *testing.T) {
	valid := Sample{
		Body:   geom.Identity(),
		Pelvis: geom.Identity(),
		Feet:   []FootSample{{Position: mgl64.Vec3{1, 2, 3}}},
	}
	if !valid.IsValid() {
		t.Error("expected valid sample")
	}

	tests := []struct {
		name   string
		mutate func(*Sample)
	}{
		{"nan phase", func(s *Sample) { s.Phase = math.NaN() }},
		{"inf speed", func(s *Sample) { s.Speed = math.Inf(1) }},
		{"nan body", func(s *Sample) { s.Body.Translation[0] = math.NaN() }},
		{"nan rotation", func(s *Sample) { s.Pelvis.Rotation.W = math.NaN() }},
		{"inf foot", func(s *Sample) { s.Feet[0].Position[2] = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Feet = append([]FootSample(nil), valid.Feet...)
			tt.mutate(&s)
			if s.IsValid() {
				t.Error("expected invalid sample")
			}
		})
	}
}

func TestStatusPool(t *testing.T) {
	pool := NewStatusPool()

	buf := pool.Get()
	if buf == nil {
		t.Fatal("expected buffer")
	}
	*buf = append(*buf, loco.FootStatus{}, loco.FootStatus{})
	pool.Put(buf)

	again := pool.Get()
	if len(*again) != 0 {
		t.Errorf("expected empty buffer, got len %d", len(*again))
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Frame: 90, Message: "test error"}
	msg := err.Error()
	if !strings.Contains(msg, "1.5") || !strings.Contains(msg, "frame 90") || !strings.Contains(msg, "test error") {
		t.Errorf("unexpected error message %q", msg)
	}
}
