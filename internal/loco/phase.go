package loco

import "math"

// catchUpWindow is the largest lag a foot phase will chase. Beyond it the
// foot waits for the target phase to come around again.
const catchUpWindow = 0.25

// Wrap maps p into [0, 1).
func Wrap(p float64) float64 {
	w := p - math.Floor(p)
	if w >= 1 {
		return 0
	}
	return w
}

// CatchUp advances current towards target without ever moving backwards.
func CatchUp(current, target, maxAdvance float64) float64 {
	d := Wrap(target - current)
	if d > catchUpWindow {
		return current
	}
	if d > maxAdvance {
		d = maxAdvance
	}
	return Wrap(current + d)
}

// EaseHermite remaps alpha in [0,1] with a cubic whose end slopes are
// 1-easeIn and 1-easeOut. Zero easing is linear.
func EaseHermite(alpha, easeIn, easeOut float64) float64 {
	a := alpha
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 1
	}
	m0 := 1 - easeIn
	m1 := 1 - easeOut
	a2 := a * a
	a3 := a2 * a
	return (a3-2*a2+a)*m0 + (-2*a3 + 3*a2) + (a3-a2)*m1
}

// swingProgress is how far phase has travelled from start towards end.
func swingProgress(phase, start, end float64) float64 {
	span := end - start
	if span <= 0 {
		return 1
	}
	if phase < start {
		// wrapped past the end of the cycle
		return 1
	}
	return math.Min(math.Max((phase-start)/span, 0), 1)
}
