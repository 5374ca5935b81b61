package damp

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-5

// FastNegExp approximates exp(-x) for x >= 0. It is monotonically decreasing
// and stays within (0, 1].
func FastNegExp(x float64) float64 {
	return 1.0 / (1.0 + x + 0.48*x*x + 0.235*x*x*x)
}

// DecayFactor is the fraction of the remaining error removed by an exact
// damper over dt.
func DecayFactor(dt, halfLife float64) float64 {
	if dt <= 0 {
		return 0
	}
	return 1.0 - FastNegExp(math.Ln2*dt/(math.Max(halfLife, 0)+epsilon))
}

// Damper is an exact, non-overshooting scalar damper.
type Damper struct {
	Value float64
}

func (d *Damper) Reset(v float64) { d.Value = v }

func (d *Damper) Update(target, dt, halfLife float64) float64 {
	d.Value += (target - d.Value) * DecayFactor(dt, halfLife)
	return d.Value
}

// VectorDamper is the three-component form of Damper.
type VectorDamper struct {
	Value mgl64.Vec3
}

func (d *VectorDamper) Reset(v mgl64.Vec3) { d.Value = v }

func (d *VectorDamper) Update(target mgl64.Vec3, dt, halfLife float64) mgl64.Vec3 {
	d.Value = d.Value.Add(target.Sub(d.Value).Mul(DecayFactor(dt, halfLife)))
	return d.Value
}
