package analysis

import (
	"math"

	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/sim"
)

// SeparationFunc measures how far apart two samples taken at about the same
// time are.
type SeparationFunc func(a, b *sim.Sample) float64

// BodySeparation is the distance between the two body positions.
func BodySeparation(a, b *sim.Sample) float64 {
	return a.Body.Translation.Sub(b.Body.Translation).Len()
}

// FootSeparation is the largest distance between matching feet.
func FootSeparation(a, b *sim.Sample) float64 {
	n := len(a.Feet)
	if len(b.Feet) < n {
		n = len(b.Feet)
	}
	worst := 0.0
	for i := 0; i < n; i++ {
		d := a.Feet[i].Position.Sub(b.Feet[i].Position).Len()
		worst = math.Max(worst, d)
	}
	return worst
}

// PhaseSeparation is the circular distance between the two gait phases.
func PhaseSeparation(a, b *sim.Sample) float64 {
	d := math.Abs(a.Phase - b.Phase)
	return math.Min(d, 1-d)
}

// PlantedSeparation is the largest flat distance between matching planted
// feet.
func PlantedSeparation(a, b *sim.Sample) float64 {
	n := len(a.Feet)
	if len(b.Feet) < n {
		n = len(b.Feet)
	}
	worst := 0.0
	for i := 0; i < n; i++ {
		worst = math.Max(worst, geom.FlatDistance(a.Feet[i].Planted, b.Feet[i].Planted))
	}
	return worst
}

type Separation struct {
	Mean  float64
	Max   float64
	Final float64
	// MaxTime is the time in a at which Max occurred.
	MaxTime float64
	Count   int
}

// Divergence walks a and pairs each sample with the sample of b nearest in
// time, measuring sep for every pair. Both runs must be ordered by time.
func Divergence(a, b []sim.Sample, sep SeparationFunc) Separation {
	var out Separation
	if len(a) == 0 || len(b) == 0 {
		return out
	}

	j := 0
	sum := 0.0
	for i := range a {
		t := a[i].Time
		for j+1 < len(b) && math.Abs(b[j+1].Time-t) <= math.Abs(b[j].Time-t) {
			j++
		}

		d := sep(&a[i], &b[j])
		sum += d
		if d > out.Max || out.Count == 0 {
			out.Max = d
			out.MaxTime = t
		}
		out.Final = d
		out.Count++
	}
	out.Mean = sum / float64(out.Count)
	return out
}
