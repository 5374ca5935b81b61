package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axes of the simulation frame: +X forward, +Y left, +Z up.
var (
	Forward = mgl64.Vec3{1, 0, 0}
	Left    = mgl64.Vec3{0, 1, 0}
	Up      = mgl64.Vec3{0, 0, 1}
)

const epsilon = 1e-9

// Transform is a rigid transform: rotation followed by translation.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// NewTransform returns a transform with the given translation and rotation.
func NewTransform(translation mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{Translation: translation, Rotation: rotation}
}

// FromPosition returns a transform at p with no rotation.
func FromPosition(p mgl64.Vec3) Transform {
	return Transform{Translation: p, Rotation: mgl64.QuatIdent()}
}

// FromPositionYaw returns a transform at p rotated by yaw radians about Up.
func FromPositionYaw(p mgl64.Vec3, yaw float64) Transform {
	return Transform{Translation: p, Rotation: mgl64.QuatRotate(yaw, Up)}
}

func (t Transform) String() string {
	return fmt.Sprintf("Transform{x=%+.2f y=%+.2f z=%+.2f yaw=%+.2f}",
		t.Translation.X(), t.Translation.Y(), t.Translation.Z(), Yaw(t.Rotation))
}

// Compose returns t * local: local expressed in t's frame, brought to t's
// parent space.
func (t Transform) Compose(local Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(local.Translation)),
		Rotation:    t.Rotation.Mul(local.Rotation).Normalize(),
	}
}

// Inverse returns the inverse rigid transform.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Inverse()
	return Transform{
		Translation: inv.Rotate(t.Translation.Mul(-1)),
		Rotation:    inv,
	}
}

// RelativeTo expresses t in the frame of parent, so that
// parent.Compose(t.RelativeTo(parent)) == t.
func (t Transform) RelativeTo(parent Transform) Transform {
	return parent.Inverse().Compose(t)
}

// TransformPoint maps a local point into t's parent space.
func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.Translation.Add(t.Rotation.Rotate(p))
}

// Forward returns the transform's forward axis in parent space.
func (t Transform) Forward() mgl64.Vec3 { return t.Rotation.Rotate(Forward) }

// Left returns the transform's left axis in parent space.
func (t Transform) Left() mgl64.Vec3 { return t.Rotation.Rotate(Left) }

// Up returns the transform's up axis in parent space.
func (t Transform) Up() mgl64.Vec3 { return t.Rotation.Rotate(Up) }

// ApproxEqual compares translations and rotations (either quaternion sign)
// within tol.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	if t.Translation.Sub(o.Translation).Len() > tol {
		return false
	}
	return math.Abs(math.Abs(t.Rotation.Dot(o.Rotation))-1) <= tol
}

// Flatten drops the vertical component.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), v.Y(), 0}
}

// FlatDistance is the distance between a and b on the ground plane.
func FlatDistance(a, b mgl64.Vec3) float64 {
	return Flatten(b.Sub(a)).Len()
}

// Lerp interpolates between a and b.
func Lerp(a, b mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

// LerpScalar interpolates between a and b.
func LerpScalar(a, b, alpha float64) float64 {
	return a + (b-a)*alpha
}

// Clamp01 clamps x to [0, 1].
func Clamp01(x float64) float64 {
	return mgl64.Clamp(x, 0, 1)
}

// SafeNormalize returns v normalized, or fallback when v is (near) zero.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon {
		return fallback
	}
	return v.Mul(1 / l)
}

// Yaw returns the heading of q about Up, in radians.
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(Forward)
	return math.Atan2(f.Y(), f.X())
}
