package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ToRotationVector returns the axis*angle form of q, taking the shortest arc.
func ToRotationVector(q mgl64.Quat) mgl64.Vec3 {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	s := q.V.Len()
	if s < epsilon {
		return q.V.Mul(2)
	}
	angle := 2 * math.Atan2(s, q.W)
	return q.V.Mul(angle / s)
}

// FromRotationVector is the inverse of ToRotationVector.
func FromRotationVector(v mgl64.Vec3) mgl64.Quat {
	angle := v.Len()
	if angle < epsilon {
		return mgl64.Quat{W: 1, V: v.Mul(0.5)}.Normalize()
	}
	return mgl64.QuatRotate(angle, v.Mul(1/angle))
}

// Slerp interpolates between a and b along the shortest arc.
func Slerp(a, b mgl64.Quat, alpha float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if alpha <= 0 {
		return a
	}
	if alpha >= 1 {
		return b
	}
	return mgl64.QuatSlerp(a, b, alpha).Normalize()
}

// GroundAngles decomposes a ground normal into pitch (about the frame's left
// axis) and roll (about its forward axis) that would tilt the frame's up axis
// onto the normal.
func GroundAngles(normal mgl64.Vec3, frame mgl64.Quat) (pitch, roll float64) {
	n := SafeNormalize(normal, Up)
	fwd := frame.Rotate(Forward)
	left := frame.Rotate(Left)
	up := frame.Rotate(Up)
	nUp := n.Dot(up)
	pitch = math.Atan2(n.Dot(fwd), nUp)
	roll = math.Atan2(-n.Dot(left), nUp)
	return pitch, roll
}

// GroundTilt returns frame tilted towards the ground normal, with pitch and
// roll scaled independently.
func GroundTilt(normal mgl64.Vec3, frame mgl64.Quat, pitchScale, rollScale float64) mgl64.Quat {
	if pitchScale == 0 && rollScale == 0 {
		return frame
	}
	pitch, roll := GroundAngles(normal, frame)
	pq := mgl64.QuatRotate(pitch*pitchScale, frame.Rotate(Left))
	rq := mgl64.QuatRotate(roll*rollScale, frame.Rotate(Forward))
	return rq.Mul(pq).Mul(frame).Normalize()
}
