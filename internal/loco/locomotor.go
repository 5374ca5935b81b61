package loco

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "loco",
})

// Option configures a Locomotor.
type Option func(*Locomotor)

// WithGroundProbe installs the ground query used for foot and body
// placement. Without one the ground is ignored.
func WithGroundProbe(p GroundProbe) Option {
	return func(l *Locomotor) { l.probe = p }
}

// WithIgnore sets the names every ground probe is told to skip.
func WithIgnore(names ...string) Option {
	return func(l *Locomotor) { l.ignore = append([]string(nil), names...) }
}

// WithLogger replaces the package logger.
func WithLogger(entry *logrus.Entry) Option {
	return func(l *Locomotor) {
		if entry != nil {
			l.log = entry
		}
	}
}

// WithMaxSubSteps bounds the fixed steps taken by one RunSimulation call.
func WithMaxSubSteps(n int) Option {
	return func(l *Locomotor) {
		if n > 0 {
			l.maxSubSteps = n
		}
	}
}

// Locomotor drives a legged rig towards a root goal.
type Locomotor struct {
	feet []foot
	sets []footSet
	body body
	head *Head

	settings Settings

	initialRootGoal geom.Transform
	hasReset        bool
	postInitialized bool

	phase        float64
	speed        float64
	phaseSpeed   float64
	strideLength float64
	accelerating bool
	fullyAtRest  bool

	accumulator float64
	maxSubSteps int
	steps       uint64

	probe  GroundProbe
	ignore []string
	log    *logrus.Entry
}

func New(opts ...Option) *Locomotor {
	l := &Locomotor{
		settings:        DefaultSettings(),
		initialRootGoal: geom.Identity(),
		maxSubSteps:     DefaultMaxSubSteps,
		fullyAtRest:     true,
		log:             log,
	}
	l.body.initialPelvis = geom.Identity()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reset (re)initialises runtime state around rootGoal. Cached offsets are
// rebuilt on the next RunSimulation; only the latest Reset counts.
func (l *Locomotor) Reset(rootGoal, initialPelvis geom.Transform) {
	if rootGoal.Rotation.Len() == 0 {
		rootGoal.Rotation = mgl64.QuatIdent()
	}
	if initialPelvis.Rotation.Len() == 0 {
		initialPelvis.Rotation = mgl64.QuatIdent()
	}
	l.initialRootGoal = rootGoal
	l.body.initialPelvis = initialPelvis
	l.hasReset = true
	l.postInitialized = false

	l.phase = 0
	l.speed = 0
	l.phaseSpeed = 0
	l.strideLength = 0
	l.accelerating = false
	l.fullyAtRest = true
	l.accumulator = 0
	l.settings.RootGoal = rootGoal

	l.log.WithFields(logrus.Fields{
		"root_goal": rootGoal.String(),
		"feet":      len(l.feet),
	}).Debug("reset")
}

// AddFootSet registers a foot set and returns its index.
func (l *Locomotor) AddFootSet(phaseOffset float64) int {
	idx := len(l.sets)
	l.sets = append(l.sets, footSet{index: idx, phaseOffset: Wrap(phaseOffset)})
	l.postInitialized = false
	return idx
}

// AddFootToSet adds a foot with the given initial world transform and
// returns its index within the set.
func (l *Locomotor) AddFootToSet(setID int, initialFoot geom.Transform, settings FootSettings) (int, error) {
	if setID < 0 || setID >= len(l.sets) {
		l.log.WithField("set", setID).Error("add foot: no such foot set")
		return InvalidIndex, ErrInvalidFootSet
	}
	arena := len(l.feet)
	l.feet = append(l.feet, newFoot(setID, initialFoot, settings))
	set := &l.sets[setID]
	set.feet = append(set.feet, arena)
	l.postInitialized = false
	return len(set.feet) - 1, nil
}

// RunSimulation consumes settings.DeltaTime in fixed steps and returns how
// many steps ran.
func (l *Locomotor) RunSimulation(settings Settings) int {
	if settings.RootGoal.Rotation.Len() == 0 {
		settings.RootGoal.Rotation = mgl64.QuatIdent()
	}
	l.settings = settings

	if !l.postInitialized {
		l.postInitialize()
	}

	dt := settings.DeltaTime
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		l.log.WithField("dt", dt).Debug("ignoring non-positive delta time")
		return 0
	}
	l.accumulator += dt

	n := 0
	for l.accumulator >= MinStepTime {
		if n >= l.maxSubSteps {
			l.log.WithFields(logrus.Fields{
				"steps":   n,
				"dropped": l.accumulator,
			}).Warn("sub-step cap reached, dropping accumulated time")
			l.accumulator = 0
			break
		}
		step := math.Min(l.accumulator, MaxStepTime)
		l.step(step)
		l.accumulator -= step
		n++
	}
	return n
}

func (l *Locomotor) postInitialize() {
	root := l.initialRootGoal
	if !l.hasReset {
		root = l.settings.RootGoal
		l.initialRootGoal = root
		l.body.initialPelvis = root
	}

	for i := range l.feet {
		l.feet[i].place(root)
	}
	l.body.place(root, l.feet)

	mv := &l.settings.Movement
	l.speed = mv.SpeedMin
	l.updateGaitRate()
	l.accelerating = false
	l.fullyAtRest = true
	for i := range l.feet {
		f := &l.feet[i]
		f.targetPhase = l.sets[f.set].targetPhase(l.phase, f)
		f.currentPhase = f.targetPhase
	}
	l.postInitialized = true

	l.log.WithFields(logrus.Fields{
		"feet": len(l.feet),
		"sets": len(l.sets),
	}).Debug("post-initialized")
}

func (l *Locomotor) step(dt float64) {
	s := &l.settings
	l.steps++

	l.updateSpeed(dt)

	anyWants := false
	for i := range l.feet {
		f := &l.feet[i]
		f.targetPhase = l.sets[f.set].targetPhase(l.phase, f)
		f.updateFinalTarget(s.RootGoal, s, l.probe, l.ignore)
		f.wantsToStep = f.distanceToFinal() > s.Movement.MinStepLength
		anyWants = anyWants || f.wantsToStep
	}

	if l.fullyAtRest && anyWants {
		l.syncFromRest()
	}

	for i := range l.feet {
		l.feet[i].updateGait(dt, l, s)
	}

	if s.Stepping.FootCollisionEnabled {
		resolveFootCollisions(l.feet, s.Stepping.FootCollisionScale, s.RootGoal.Left())
	}

	l.fullyAtRest = true
	for i := range l.feet {
		f := &l.feet[i]
		if f.cancelShortStep(s.Movement.MinStepLength) {
			l.log.WithField("foot", i).Trace("step cancelled")
		}
		l.fullyAtRest = l.fullyAtRest && f.atRest
	}

	for i := range l.feet {
		l.feet[i].animate(dt, l.strideLength, s)
	}

	l.body.update(dt, l, s)
}

// updateSpeed integrates speed towards the goal and advances the global
// phase.
func (l *Locomotor) updateSpeed(dt float64) {
	mv := &l.settings.Movement
	dist := geom.FlatDistance(l.body.target.Translation, l.settings.RootGoal.Translation)

	decelDist := 0.0
	if mv.Deceleration > 0 {
		decelDist = (l.speed*l.speed - mv.SpeedMin*mv.SpeedMin) / (2 * mv.Deceleration)
	}
	if dist > l.strideLength && dist > decelDist {
		l.speed += mv.Acceleration * dt
		l.accelerating = true
	} else {
		l.speed -= mv.Deceleration * dt
		l.accelerating = false
	}
	l.speed = mgl64.Clamp(l.speed, mv.SpeedMin, math.Max(mv.SpeedMin, mv.SpeedMax))
	if l.fullyAtRest {
		l.speed = mv.SpeedMin
	}
	l.updateGaitRate()

	if !l.fullyAtRest {
		l.phase = Wrap(l.phase + l.phaseSpeed*dt)
	}
}

func (l *Locomotor) updateGaitRate() {
	mv := &l.settings.Movement
	l.phaseSpeed = geom.LerpScalar(mv.PhaseSpeedMin, mv.PhaseSpeedMax, mv.speedFraction(l.speed))
	if l.phaseSpeed > 0 {
		l.strideLength = l.speed / l.phaseSpeed
	} else {
		l.strideLength = 0
	}
}

// syncFromRest rewinds the global phase so the foot furthest from its
// target steps first.
func (l *Locomotor) syncFromRest() {
	lead := -1
	best := -1.0
	for i := range l.feet {
		f := &l.feet[i]
		if !f.wantsToStep {
			continue
		}
		if d := f.distanceToFinal(); d > best {
			best = d
			lead = i
		}
	}
	if lead < 0 {
		return
	}
	f := &l.feet[lead]
	l.phase = Wrap(-(l.sets[f.set].phaseOffset + f.settings.StaticPhaseOffset))
	for i := range l.feet {
		g := &l.feet[i]
		g.targetPhase = l.sets[g.set].targetPhase(l.phase, g)
		g.currentPhase = g.targetPhase
	}
	// rounding may leave the lead just short of 1
	f.targetPhase, f.currentPhase = 0, 0
	l.log.WithFields(logrus.Fields{
		"lead":  lead,
		"phase": l.phase,
	}).Debug("leaving rest")
}

func (l *Locomotor) speedFraction() float64 {
	return l.settings.Movement.speedFraction(l.speed)
}

func (l *Locomotor) meanGroundNormal(s *Settings) (mgl64.Vec3, bool) {
	var sum mgl64.Vec3
	hits := 0
	for i := range l.feet {
		f := &l.feet[i]
		res, ok := probeGround(l.probe, f.linear, f.settings.CollisionRadius, &s.Stepping, l.ignore)
		if !ok {
			continue
		}
		sum = sum.Add(geom.SafeNormalize(res.Normal, geom.Up))
		hits++
	}
	if hits == 0 {
		return mgl64.Vec3{}, false
	}
	return geom.SafeNormalize(sum, geom.Up), true
}

// FootTransforms writes every foot's current transform into dst in the
// order the feet were added.
func (l *Locomotor) FootTransforms(dst []geom.Transform) error {
	if len(dst) != len(l.feet) {
		l.log.WithFields(logrus.Fields{
			"want": len(l.feet),
			"got":  len(dst),
		}).Error("foot transforms: output length mismatch")
		return ErrFootCountMismatch
	}
	for i := range l.feet {
		dst[i] = l.feet[i].current
	}
	return nil
}

func (l *Locomotor) lookup(setID, footIdx int) (*foot, error) {
	if setID < 0 || setID >= len(l.sets) {
		return nil, ErrInvalidFootSet
	}
	set := &l.sets[setID]
	if footIdx < 0 || footIdx >= len(set.feet) {
		return nil, ErrInvalidFoot
	}
	return &l.feet[set.feet[footIdx]], nil
}

// FootTransform returns one foot's current transform.
func (l *Locomotor) FootTransform(setID, footIdx int) (geom.Transform, error) {
	f, err := l.lookup(setID, footIdx)
	if err != nil {
		return geom.Identity(), err
	}
	return f.current, nil
}

// Foot returns a snapshot of one foot.
func (l *Locomotor) Foot(setID, footIdx int) (FootStatus, error) {
	f, err := l.lookup(setID, footIdx)
	if err != nil {
		return FootStatus{}, err
	}
	return f.status(), nil
}

// Feet appends a snapshot of every foot, in arena order, to dst[:0].
func (l *Locomotor) Feet(dst []FootStatus) []FootStatus {
	dst = dst[:0]
	for i := range l.feet {
		dst = append(dst, l.feet[i].status())
	}
	return dst
}

func (l *Locomotor) PelvisTransform() geom.Transform     { return l.body.pelvis }
func (l *Locomotor) BodyTransform() geom.Transform       { return l.body.current }
func (l *Locomotor) BodyTargetTransform() geom.Transform { return l.body.target }
func (l *Locomotor) Phase() float64                      { return l.phase }
func (l *Locomotor) Speed() float64                      { return l.speed }
func (l *Locomotor) PhaseSpeed() float64                 { return l.phaseSpeed }
func (l *Locomotor) StrideLength() float64               { return l.strideLength }
func (l *Locomotor) FullyAtRest() bool                   { return l.fullyAtRest }
func (l *Locomotor) Accelerating() bool                  { return l.accelerating }
func (l *Locomotor) FootCount() int                      { return len(l.feet) }
func (l *Locomotor) FootSetCount() int                   { return len(l.sets) }
func (l *Locomotor) Steps() uint64                       { return l.steps }

// BobOffset is the vertical pelvis offset currently applied.
func (l *Locomotor) BobOffset() float64 { return l.body.bob.Value }

// InitializeHead attaches a head holding t.
func (l *Locomotor) InitializeHead(t geom.Transform) {
	if l.head == nil {
		l.head = &Head{}
	}
	l.head.Initialize(t)
}

// Head returns the head transform, if one was initialised.
func (l *Locomotor) Head() (geom.Transform, bool) {
	if l.head == nil {
		return geom.Identity(), false
	}
	return l.head.Transform(), true
}
