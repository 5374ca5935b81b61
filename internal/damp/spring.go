package damp

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
)

// coefficients caches a harmonica spring for one (dt, stiffness, damping)
// triple. Every sub-step of a tick usually shares the same triple.
type coefficients struct {
	dt, stiffness, damping float64
	spring                 harmonica.Spring
	valid                  bool
}

// get returns the closed-form solver for x'' = -k(x-target) - c*x'.
func (c *coefficients) get(dt, stiffness, damping float64) harmonica.Spring {
	if c.valid && c.dt == dt && c.stiffness == stiffness && c.damping == damping {
		return c.spring
	}
	omega := math.Sqrt(math.Max(stiffness, 0))
	zeta := 0.0
	if omega > 0 {
		zeta = math.Max(damping, 0) / (2 * omega)
	}
	c.dt, c.stiffness, c.damping = dt, stiffness, damping
	c.spring = harmonica.NewSpring(dt, omega, zeta)
	c.valid = true
	return c.spring
}

// CriticalDamping returns the damping coefficient at which a spring of the
// given stiffness stops overshooting.
func CriticalDamping(stiffness float64) float64 {
	return 2 * math.Sqrt(math.Max(stiffness, 0))
}

// Spring is a second-order scalar spring. It overshoots when damping is
// below CriticalDamping(stiffness).
type Spring struct {
	Value    float64
	Velocity float64
	coef     coefficients
}

func (s *Spring) Reset(v float64) {
	s.Value = v
	s.Velocity = 0
}

func (s *Spring) Update(dt, target, stiffness, damping float64) float64 {
	if dt <= 0 {
		return s.Value
	}
	s.Value, s.Velocity = s.coef.get(dt, stiffness, damping).Update(s.Value, s.Velocity, target)
	return s.Value
}

// VectorSpring applies Spring per component.
type VectorSpring struct {
	Value    mgl64.Vec3
	Velocity mgl64.Vec3
	coef     coefficients
}

func (s *VectorSpring) Reset(v mgl64.Vec3) {
	s.Value = v
	s.Velocity = mgl64.Vec3{}
}

func (s *VectorSpring) Update(dt float64, target mgl64.Vec3, stiffness, damping float64) mgl64.Vec3 {
	if dt <= 0 {
		return s.Value
	}
	sp := s.coef.get(dt, stiffness, damping)
	for i := 0; i < 3; i++ {
		s.Value[i], s.Velocity[i] = sp.Update(s.Value[i], s.Velocity[i], target[i])
	}
	return s.Value
}

// QuatSpring springs a rotation towards a target rotation. The state is the
// rotation-vector offset from the target, so it always takes the short way.
type QuatSpring struct {
	Value mgl64.Quat
	// Velocity is angular velocity in rotation-vector space (rad/s).
	Velocity mgl64.Vec3
	coef     coefficients
}

func (s *QuatSpring) Reset(q mgl64.Quat) {
	s.Value = q.Normalize()
	s.Velocity = mgl64.Vec3{}
}

func (s *QuatSpring) Update(dt float64, target mgl64.Quat, stiffness, damping float64) mgl64.Quat {
	if dt <= 0 {
		return s.Value
	}
	if s.Value.Len() == 0 {
		s.Reset(target)
		return s.Value
	}
	target = target.Normalize()
	if s.Value.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	offset := geom.ToRotationVector(s.Value.Mul(target.Inverse()))
	sp := s.coef.get(dt, stiffness, damping)
	for i := 0; i < 3; i++ {
		offset[i], s.Velocity[i] = sp.Update(offset[i], s.Velocity[i], 0)
	}
	s.Value = geom.FromRotationVector(offset).Mul(target).Normalize()
	return s.Value
}
