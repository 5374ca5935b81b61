package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeRelativeRoundTrip(t *testing.T) {
	parent := FromPositionYaw(mgl64.Vec3{10, -4, 2}, 0.7)
	child := FromPositionYaw(mgl64.Vec3{3, 5, 0}, -1.2)

	local := child.RelativeTo(parent)
	back := parent.Compose(local)

	assert.True(t, back.ApproxEqual(child, 1e-9), "got %v, want %v", back, child)
}

func TestInverse(t *testing.T) {
	tr := FromPositionYaw(mgl64.Vec3{1, 2, 3}, math.Pi/3)
	id := tr.Compose(tr.Inverse())

	assert.True(t, id.ApproxEqual(Identity(), 1e-9))
}

func TestAxesFollowYaw(t *testing.T) {
	tr := FromPositionYaw(mgl64.Vec3{}, math.Pi/2)

	assert.InDelta(t, 0, tr.Forward().X(), 1e-9)
	assert.InDelta(t, 1, tr.Forward().Y(), 1e-9)
	assert.InDelta(t, -1, tr.Left().X(), 1e-9)
	assert.InDelta(t, 1, tr.Up().Z(), 1e-9)
	assert.InDelta(t, math.Pi/2, Yaw(tr.Rotation), 1e-9)
}

func TestFlatDistanceIgnoresHeight(t *testing.T) {
	assert.InDelta(t, 5, FlatDistance(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 4, 100}), 1e-12)
}

func TestSafeNormalize(t *testing.T) {
	assert.Equal(t, Left, SafeNormalize(mgl64.Vec3{}, Left))
	assert.InDelta(t, 1, SafeNormalize(mgl64.Vec3{0, 0, 7}, Left).Len(), 1e-12)
}

func TestRotationVectorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		q    mgl64.Quat
	}{
		{"identity", mgl64.QuatIdent()},
		{"yaw", mgl64.QuatRotate(1.1, Up)},
		{"tilted", mgl64.QuatRotate(2.5, mgl64.Vec3{1, 1, 0}.Normalize())},
		{"tiny", mgl64.QuatRotate(1e-12, Forward)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ToRotationVector(tt.q)
			back := FromRotationVector(v)
			assert.InDelta(t, 1, math.Abs(back.Dot(tt.q)), 1e-9)
		})
	}
}

func TestRotationVectorShortestArc(t *testing.T) {
	q := mgl64.QuatRotate(0.3, Up).Scale(-1)
	v := ToRotationVector(q)

	assert.InDelta(t, 0.3, v.Len(), 1e-9)
}

func TestGroundAnglesFlatGround(t *testing.T) {
	pitch, roll := GroundAngles(Up, mgl64.QuatRotate(0.4, Up))

	assert.InDelta(t, 0, pitch, 1e-12)
	assert.InDelta(t, 0, roll, 1e-12)
}

func TestGroundTiltAlignsUpWithNormal(t *testing.T) {
	slope := 0.25
	normal := mgl64.Vec3{-math.Sin(slope), 0, math.Cos(slope)}

	tilted := GroundTilt(normal, mgl64.QuatIdent(), 1, 1)
	up := tilted.Rotate(Up)

	require.InDelta(t, 1, up.Dot(normal), 1e-9)
	// Ground rising ahead pitches the nose up.
	assert.Greater(t, tilted.Rotate(Forward).Z(), 0.0)
}

func TestGroundTiltScales(t *testing.T) {
	normal := mgl64.Vec3{0, -math.Sin(0.3), math.Cos(0.3)}

	assert.Equal(t, mgl64.QuatIdent(), GroundTilt(normal, mgl64.QuatIdent(), 0, 0))

	half := GroundTilt(normal, mgl64.QuatIdent(), 0, 0.5)
	assert.InDelta(t, 0.15, ToRotationVector(half).Len(), 1e-9)
}

func TestSlerpEndpoints(t *testing.T) {
	a := mgl64.QuatIdent()
	b := mgl64.QuatRotate(1, Up)

	assert.Equal(t, a, Slerp(a, b, 0))
	assert.Equal(t, b, Slerp(a, b, 1))
	assert.InDelta(t, 0.5, Yaw(Slerp(a, b, 0.5)), 1e-9)
}
