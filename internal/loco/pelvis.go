package loco

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/damp"
	"github.com/san-kum/locosim/internal/geom"
)

// body aggregates the feet into a body transform and carries the pelvis on
// top of it.
type body struct {
	initialPelvis geom.Transform
	pelvis        geom.Transform
	pelvisToBody  geom.Transform

	current    geom.Transform
	target     geom.Transform
	prevTarget geom.Transform

	// restCentroid is the mean rest offset of all feet in root-goal space.
	restCentroid mgl64.Vec3
	groundNormal mgl64.Vec3

	lead     damp.VectorDamper
	bob      damp.Spring
	rotation damp.QuatSpring
}

func (b *body) place(rootGoal geom.Transform, feet []foot) {
	b.pelvisToBody = b.initialPelvis.RelativeTo(rootGoal)

	b.restCentroid = mgl64.Vec3{}
	if len(feet) > 0 {
		for i := range feet {
			b.restCentroid = b.restCentroid.Add(feet[i].restLocal)
		}
		b.restCentroid = b.restCentroid.Mul(1 / float64(len(feet)))
	}

	b.target = rootGoal
	b.prevTarget = rootGoal
	b.current = rootGoal
	b.pelvis = b.initialPelvis
	b.groundNormal = geom.Up
	b.lead.Reset(mgl64.Vec3{})
	b.bob.Reset(0)
	b.rotation.Reset(rootGoal.Rotation)
}

func (b *body) update(dt float64, l *Locomotor, s *Settings) {
	feet := l.feet
	rootGoal := s.RootGoal

	b.target.Rotation = rootGoal.Rotation
	if len(feet) == 0 {
		b.target.Translation = rootGoal.Translation
	} else {
		var sum mgl64.Vec3
		for i := range feet {
			sum = sum.Add(feet[i].linear)
		}
		mean := sum.Mul(1 / float64(len(feet)))
		b.target.Translation = mean.Sub(rootGoal.Rotation.Rotate(b.restCentroid))
	}

	b.groundNormal = geom.Up
	pl := &s.Pelvis
	if (pl.GroundOrientPitch != 0 || pl.GroundOrientRoll != 0) && s.Stepping.GroundCollisionEnabled && l.probe != nil {
		if n, ok := l.meanGroundNormal(s); ok {
			b.groundNormal = n
			b.target.Rotation = geom.GroundTilt(n, rootGoal.Rotation, pl.GroundOrientPitch, pl.GroundOrientRoll)
		}
	}

	var leadGoal mgl64.Vec3
	if !l.fullyAtRest && dt > 0 {
		velocity := geom.Flatten(b.target.Translation.Sub(b.prevTarget.Translation)).Mul(1 / dt)
		sign := -1.0
		if l.accelerating {
			sign = 1
		}
		leadGoal = geom.SafeNormalize(velocity, mgl64.Vec3{}).Mul(pl.LeadAmount * sign)
	}
	b.lead.Update(leadGoal, dt, pl.LeadDampingHalfLife)
	b.prevTarget = b.target

	b.current.Translation = b.target.Translation.Add(b.lead.Value)
	b.current.Rotation = b.rotation.Update(dt, b.target.Rotation, pl.RotationStiffness, pl.RotationDamping)

	b.updatePelvis(dt, feet, pl)
}

func (b *body) updatePelvis(dt float64, feet []foot, pl *PelvisSettings) {
	bobGoal := 0.0
	if n := len(feet); n > 0 {
		height := 0.0
		moving := 0
		for i := range feet {
			height += feet[i].strideHeight
			if !feet[i].atRest {
				moving++
			}
		}
		bobGoal = height/float64(n) + pl.BobOffset*float64(moving)/float64(n)
	}
	b.bob.Update(dt, bobGoal, pl.BobStiffness, pl.BobDamping)

	b.pelvis = b.current.Compose(b.pelvisToBody)
	b.pelvis.Translation[2] += b.bob.Value
}
