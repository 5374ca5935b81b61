package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/loco"
)

// GoalPath yields the root goal at host time t.
type GoalPath interface {
	Name() string
	Goal(t float64) geom.Transform
}

// Builder creates a ready, Reset locomotor standing at start.
type Builder func(start geom.Transform) (*loco.Locomotor, error)

type FootSample struct {
	Position mgl64.Vec3
	Planted  mgl64.Vec3
	Yaw      float64
	Phase    float64
	Height   float64
	Radius   float64
	InSwing  bool
	AtRest   bool
}

// Sample is the rig state after one host frame.
type Sample struct {
	Frame        int
	Time         float64
	Dt           float64
	SubSteps     int
	Phase        float64
	Speed        float64
	PhaseSpeed   float64
	StrideLength float64
	AtRest       bool
	Bob          float64
	Goal         geom.Transform
	Body         geom.Transform
	Pelvis       geom.Transform
	Feet         []FootSample
}

// IsValid reports whether every number in the sample is finite.
func (s *Sample) IsValid() bool {
	vals := []float64{s.Phase, s.Speed, s.PhaseSpeed, s.StrideLength, s.Bob}
	for _, t := range []geom.Transform{s.Body, s.Pelvis} {
		vals = append(vals, t.Translation[:]...)
		vals = append(vals, t.Rotation.W)
	}
	for _, f := range s.Feet {
		vals = append(vals, f.Position[:]...)
		vals = append(vals, f.Phase, f.Height)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(s *Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s *Sample)
}

// Pause stalls the host at At for Length seconds.
type Pause struct {
	At     float64
	Length float64
}

type Config struct {
	FrameRate float64
	Duration  float64
	// Jitter scales frame times uniformly within ±Jitter of the nominal.
	Jitter        float64
	Seed          int64
	Pauses        []Pause
	ValidateState bool
}

type Result struct {
	Samples  []Sample
	Metrics  map[string]float64
	Frames   int
	SubSteps int
	// Stalls counts frames that absorbed a configured pause.
	Stalls   int
	Errors   []error
}

type SimError struct {
	Time    float64
	Frame   int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("simulation error at t=%.4f (frame %d): %s", e.Time, e.Frame, e.Message)
}
