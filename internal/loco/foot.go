package loco

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/damp"
	"github.com/san-kum/locosim/internal/geom"
)

// acceptEpsilon lets a swing goal that is exactly as good as the previous
// one through, so a stationary goal still updates rotation and height.
const acceptEpsilon = 1e-6

// foot is the runtime state of one limb. Feet live in the Locomotor's arena.
type foot struct {
	settings FootSettings
	set      int

	currentPhase float64
	targetPhase  float64
	swingStart   float64
	swingEnd     float64

	atRest      bool
	inSwing     bool
	wantsToStep bool
	unplanting  bool

	initial      geom.Transform
	planted      geom.Transform
	current      geom.Transform
	target       geom.Transform
	final        geom.Transform
	strideOrigin geom.Transform
	swingGoal    geom.Transform

	// footToBody is the initial foot relative to the initial root goal.
	footToBody geom.Transform
	restLocal  mgl64.Vec3

	linear       mgl64.Vec3
	strideHeight float64

	groundHit    bool
	groundNormal mgl64.Vec3

	rotation     damp.QuatSpring
	targetSpring damp.VectorSpring
}

// FootStatus is a read-only snapshot of one foot.
type FootStatus struct {
	Set          int
	Phase        float64
	TargetPhase  float64
	SwingStart   float64
	SwingEnd     float64
	AtRest       bool
	InSwing      bool
	WantsToStep  bool
	Planted      geom.Transform
	Current      geom.Transform
	Target       geom.Transform
	Final        geom.Transform
	Linear       mgl64.Vec3
	StrideHeight float64
	Radius       float64
	GroundNormal mgl64.Vec3
}

func newFoot(set int, initial geom.Transform, settings FootSettings) foot {
	if initial.Rotation.Len() == 0 {
		initial.Rotation = mgl64.QuatIdent()
	}
	f := foot{
		settings: settings,
		set:      set,
		initial:  initial,
	}
	f.settings.StaticPhaseOffset = Wrap(settings.StaticPhaseOffset)
	f.settings.CollisionRadius = math.Max(settings.CollisionRadius, 0)
	return f
}

// place caches the offsets against the initial root goal and puts the foot
// at rest on its initial transform.
func (f *foot) place(rootGoal geom.Transform) {
	f.footToBody = f.initial.RelativeTo(rootGoal)
	f.restLocal = f.footToBody.Translation.Add(f.settings.StaticLocalOffset)

	f.planted = f.initial
	f.current = f.initial
	f.target = f.initial
	f.final = f.initial
	f.strideOrigin = f.initial
	f.swingGoal = f.initial
	f.linear = f.initial.Translation
	f.strideHeight = 0

	f.atRest = true
	f.inSwing = false
	f.wantsToStep = false
	f.unplanting = false
	f.swingStart, f.swingEnd = 0, 0

	f.groundHit = false
	f.groundNormal = geom.Up
	f.rotation.Reset(f.initial.Rotation)
	f.targetSpring.Reset(f.initial.Translation)
}

// updateFinalTarget recomputes where the foot would rest under rootGoal,
// snapped to the ground when a probe is available.
func (f *foot) updateFinalTarget(rootGoal geom.Transform, s *Settings, probe GroundProbe, ignore []string) {
	local := geom.Transform{Translation: f.restLocal, Rotation: f.footToBody.Rotation}
	f.final = rootGoal.Compose(local)
	f.groundHit = false
	f.groundNormal = geom.Up

	st := &s.Stepping
	if !st.GroundCollisionEnabled || probe == nil {
		return
	}
	res, ok := probeGround(probe, f.final.Translation, f.settings.CollisionRadius, st, ignore)
	if !ok {
		return
	}
	f.final.Translation[2] = res.Point.Z()
	f.groundHit = true
	f.groundNormal = geom.SafeNormalize(res.Normal, geom.Up)
	f.final.Rotation = geom.GroundTilt(f.groundNormal, f.final.Rotation, st.GroundOrientPitch, st.GroundOrientRoll)
}

func probeGround(probe GroundProbe, at mgl64.Vec3, radius float64, st *SteppingSettings, ignore []string) (ProbeResult, bool) {
	h := math.Max(st.MaxCollisionHeight, 0)
	res := probe.Probe(ProbeRequest{
		Start:   at.Add(geom.Up.Mul(h)),
		End:     at.Sub(geom.Up.Mul(h)),
		Radius:  radius,
		Channel: st.TraceChannel,
		Ignore:  ignore,
	})
	return res, res.Hit
}

func (f *foot) distanceToFinal() float64 {
	return f.planted.Translation.Sub(f.final.Translation).Len()
}

// updateGait advances the phase, runs the plant/unplant transitions and
// picks this step's swing target.
func (f *foot) updateGait(dt float64, l *Locomotor, s *Settings) {
	f.unplanting = false
	f.currentPhase = CatchUp(f.currentPhase, f.targetPhase, 2*s.Movement.PhaseSpeedMax*dt)

	if f.inSwing {
		if f.currentPhase >= f.swingEnd || f.currentPhase < f.swingStart {
			f.plant()
			f.wantsToStep = f.distanceToFinal() > s.Movement.MinStepLength
		}
	}

	if !f.inSwing && f.wantsToStep {
		end := s.Stepping.swingEnd(l.speedFraction())
		// unplant only in the first half of the window; later than that the
		// foot waits planted for the next cycle instead of a truncated swing
		if f.currentPhase < end && f.currentPhase <= 0.5*end {
			f.inSwing = true
			f.unplanting = true
			f.atRest = false
			f.swingStart = f.currentPhase
			f.swingEnd = end
			f.strideOrigin = f.planted
		}
	}

	if !f.inSwing {
		f.atRest = !f.wantsToStep
		f.target = f.planted
		f.targetSpring.Reset(f.planted.Translation)
		return
	}

	f.updateSwingTarget(dt, l.strideLength, s)
}

func (f *foot) plant() {
	f.inSwing = false
	f.planted = f.target
	f.current = f.planted
	f.strideOrigin = f.planted
	f.swingGoal = f.planted
}

func (f *foot) updateSwingTarget(dt, strideLength float64, s *Settings) {
	delta := f.final.Translation.Sub(f.strideOrigin.Translation)
	reach := math.Min(delta.Len(), math.Max(strideLength, 0))
	candidate := geom.Transform{
		Translation: f.strideOrigin.Translation.Add(geom.SafeNormalize(delta, mgl64.Vec3{}).Mul(reach)),
		Rotation:    f.final.Rotation,
	}

	if f.unplanting {
		f.swingGoal = candidate
		f.targetSpring.Reset(candidate.Translation)
		f.target = candidate
		return
	}

	prev := f.swingGoal.Translation.Sub(f.final.Translation).Len()
	next := candidate.Translation.Sub(f.final.Translation).Len()
	if next <= prev+acceptEpsilon {
		f.swingGoal.Translation = candidate.Translation
	}
	f.swingGoal.Rotation = candidate.Rotation

	st := &s.Stepping
	f.target.Translation = f.targetSpring.Update(dt, f.swingGoal.Translation, st.TargetStiffness, st.TargetDamping)
	f.target.Rotation = f.swingGoal.Rotation
}

// cancelShortStep drops a swing whose target ended up too close to where
// the foot already stands.
func (f *foot) cancelShortStep(minStepLength float64) bool {
	if !f.inSwing {
		return false
	}
	if f.target.Translation.Sub(f.planted.Translation).Len() >= 0.5*minStepLength {
		return false
	}
	f.inSwing = false
	f.unplanting = false
	f.atRest = true
	f.target = f.planted
	f.current = f.planted
	f.swingGoal = f.planted
	f.targetSpring.Reset(f.planted.Translation)
	return true
}

// animate moves the visible foot along its swing arc.
func (f *foot) animate(dt, strideLength float64, s *Settings) {
	if !f.inSwing {
		f.current = f.planted
		f.linear = f.planted.Translation
		f.strideHeight = 0
		f.rotation.Reset(f.planted.Rotation)
		return
	}

	st := &s.Stepping
	alpha := swingProgress(f.currentPhase, f.swingStart, f.swingEnd)
	eased := EaseHermite(alpha, st.EaseIn, st.EaseOut)

	from := f.strideOrigin.Translation
	to := f.target.Translation
	f.linear = geom.Lerp(from, to, alpha)

	heightScale := 1.0
	if strideLength > 0 {
		heightScale = math.Min(1, to.Sub(from).Len()/strideLength)
	}
	f.strideHeight = st.StepHeight * heightScale * math.Sin(math.Pi*alpha)
	f.current.Translation = geom.Lerp(from, to, eased).Add(geom.Up.Mul(f.strideHeight))

	rot := geom.Slerp(f.strideOrigin.Rotation, f.target.Rotation, eased)
	peel := mgl64.DegToRad(f.settings.MaxHeelPeelRotation) * math.Sin(2*math.Pi*alpha)
	if peel != 0 {
		rot = mgl64.QuatRotate(peel, rot.Rotate(geom.Left)).Mul(rot).Normalize()
	}
	f.current.Rotation = f.rotation.Update(dt, rot, st.RotationStiffness, st.RotationDamping)
}

func (f *foot) status() FootStatus {
	return FootStatus{
		Set:          f.set,
		Phase:        f.currentPhase,
		TargetPhase:  f.targetPhase,
		SwingStart:   f.swingStart,
		SwingEnd:     f.swingEnd,
		AtRest:       f.atRest,
		InSwing:      f.inSwing,
		WantsToStep:  f.wantsToStep,
		Planted:      f.planted,
		Current:      f.current,
		Target:       f.target,
		Final:        f.final,
		Linear:       f.linear,
		StrideHeight: f.strideHeight,
		Radius:       f.settings.CollisionRadius,
		GroundNormal: f.groundNormal,
	}
}
