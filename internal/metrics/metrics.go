// Package metrics scores locomotion runs frame by frame.
package metrics

import "github.com/san-kum/locosim/internal/sim"

// DefaultTrackingThreshold is the body-to-goal distance counted as keeping up.
const DefaultTrackingThreshold = 60.0

// Default returns a fresh instance of every gait metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewStrideLength(),
		NewPhaseSpread(),
		NewRestFraction(),
		NewFootOverlap(),
		NewBobAmplitude(),
		NewGoalLag(),
		NewTracking(DefaultTrackingThreshold),
	}
}
