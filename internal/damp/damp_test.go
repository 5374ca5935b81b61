package damp

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastNegExp(t *testing.T) {
	assert.Equal(t, 1.0, FastNegExp(0))

	prev := FastNegExp(0)
	for x := 0.01; x < 20; x += 0.01 {
		v := FastNegExp(x)
		require.Less(t, v, prev, "not decreasing at x=%f", x)
		require.Greater(t, v, 0.0)
		prev = v
	}
	assert.InDelta(t, math.Exp(-1), FastNegExp(1), 0.01)
}

func TestDamperMonotonicNoOvershoot(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		target   float64
		dt       float64
		halfLife float64
	}{
		{"small dt", 0, 10, 1.0 / 480, 0.1},
		{"large dt", 0, 10, 2.0, 0.05},
		{"negative target", 5, -3, 1.0 / 60, 0.3},
		{"zero half life", 1, 2, 1.0 / 120, 0},
		{"huge half life", 0, 1, 1.0 / 120, 1e6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Damper{}
			d.Reset(tt.start)
			prevErr := math.Abs(tt.target - tt.start)
			for i := 0; i < 500; i++ {
				v := d.Update(tt.target, tt.dt, tt.halfLife)
				err := math.Abs(tt.target - v)
				require.LessOrEqual(t, err, prevErr)
				if tt.target > tt.start {
					require.LessOrEqual(t, v, tt.target)
				} else {
					require.GreaterOrEqual(t, v, tt.target)
				}
				prevErr = err
			}
		})
	}
}

func TestDamperHalfLife(t *testing.T) {
	d := Damper{}
	for i := 0; i < 100; i++ {
		d.Update(1, 0.01, 1.0)
	}
	// One half life in: roughly half way.
	assert.InDelta(t, 0.5, d.Value, 0.05)
}

func TestDamperIgnoresNonPositiveDt(t *testing.T) {
	d := Damper{Value: 3}
	assert.Equal(t, 3.0, d.Update(10, 0, 0.1))
	assert.Equal(t, 3.0, d.Update(10, -1, 0.1))
}

func TestVectorDamperConverges(t *testing.T) {
	d := VectorDamper{}
	target := mgl64.Vec3{3, -4, 12}
	prev := target.Len()
	for i := 0; i < 1000; i++ {
		v := d.Update(target, 1.0/120, 0.05)
		dist := target.Sub(v).Len()
		require.LessOrEqual(t, dist, prev)
		prev = dist
	}
	assert.InDelta(t, 0, prev, 1e-6)
}

func TestSpringConvergesAndOvershoots(t *testing.T) {
	s := Spring{}
	s.Reset(0)
	peak := 0.0
	for i := 0; i < 2000; i++ {
		v := s.Update(1.0/120, 1, 100, 4)
		peak = math.Max(peak, v)
	}
	assert.Greater(t, peak, 1.0, "under-damped spring should overshoot")
	assert.InDelta(t, 1, s.Value, 1e-3)
}

func TestSpringCriticalDoesNotOvershoot(t *testing.T) {
	s := Spring{}
	k := 200.0
	for i := 0; i < 2000; i++ {
		v := s.Update(1.0/240, 1, k, CriticalDamping(k))
		require.LessOrEqual(t, v, 1.0+1e-9)
	}
	assert.InDelta(t, 1, s.Value, 1e-4)
}

func TestSpringResetZeroesVelocity(t *testing.T) {
	s := Spring{}
	s.Update(0.1, 10, 50, 1)
	require.NotZero(t, s.Velocity)

	s.Reset(2)
	assert.Equal(t, 2.0, s.Value)
	assert.Zero(t, s.Velocity)
}

func TestSpringZeroStiffnessHolds(t *testing.T) {
	s := Spring{Value: 4}
	assert.Equal(t, 4.0, s.Update(0.1, 10, 0, 0))
}

func TestVectorSpring(t *testing.T) {
	s := VectorSpring{}
	target := mgl64.Vec3{1, 2, 3}
	for i := 0; i < 2000; i++ {
		s.Update(1.0/120, target, 400, 40)
	}
	assert.InDelta(t, 0, s.Value.Sub(target).Len(), 1e-4)

	s.Reset(mgl64.Vec3{})
	assert.Equal(t, mgl64.Vec3{}, s.Velocity)
}

func TestQuatSpringConverges(t *testing.T) {
	s := QuatSpring{}
	s.Reset(mgl64.QuatIdent())
	target := mgl64.QuatRotate(2.0, geom.Up)
	for i := 0; i < 3000; i++ {
		s.Update(1.0/120, target, 150, CriticalDamping(150))
	}
	assert.InDelta(t, 1, math.Abs(s.Value.Dot(target)), 1e-6)
	assert.InDelta(t, 1, s.Value.Len(), 1e-9)
}

func TestQuatSpringShortestArc(t *testing.T) {
	s := QuatSpring{}
	s.Reset(mgl64.QuatIdent())
	// Same rotation as identity, opposite sign: nothing should move.
	flipped := mgl64.QuatIdent().Scale(-1)
	s.Update(1.0/60, flipped, 100, 20)
	assert.InDelta(t, 1, math.Abs(s.Value.Dot(mgl64.QuatIdent())), 1e-12)
}

func TestQuatSpringUninitialised(t *testing.T) {
	s := QuatSpring{}
	target := mgl64.QuatRotate(0.5, geom.Left)
	got := s.Update(1.0/60, target, 100, 20)
	assert.InDelta(t, 1, math.Abs(got.Dot(target)), 1e-12)
}
