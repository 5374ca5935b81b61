package loco

// footSet groups feet that step with a shared phase offset.
type footSet struct {
	index       int
	phaseOffset float64
	// feet holds arena indices in insertion order.
	feet []int
}

// targetPhase is where a foot of this set should be for the global phase.
func (s *footSet) targetPhase(global float64, f *foot) float64 {
	return Wrap(global + s.phaseOffset + f.settings.StaticPhaseOffset)
}
