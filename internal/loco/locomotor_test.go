package loco_test

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/loco"
)

const frame = 1.0 / 60

var flatGround = loco.GroundProbeFunc(func(req loco.ProbeRequest) loco.ProbeResult {
	if req.Start.Z() < 0 || req.End.Z() > 0 {
		return loco.ProbeResult{}
	}
	return loco.ProbeResult{
		Hit:    true,
		Point:  mgl64.Vec3{req.Start.X(), req.Start.Y(), 0},
		Normal: geom.Up,
	}
})

// newBiped builds two single-foot sets half a cycle apart, feet 15 to either
// side of root.
func newBiped(root geom.Transform) *loco.Locomotor {
	return newBipedOn(root, flatGround, loco.DefaultFootSettings())
}

func newBipedOn(root geom.Transform, surface loco.GroundProbe, fs loco.FootSettings) *loco.Locomotor {
	l := loco.New(loco.WithGroundProbe(surface))
	left := l.AddFootSet(0)
	right := l.AddFootSet(0.5)
	_, err := l.AddFootToSet(left, root.Compose(geom.FromPosition(mgl64.Vec3{0, 15, 0})), fs)
	Expect(err).NotTo(HaveOccurred())
	_, err = l.AddFootToSet(right, root.Compose(geom.FromPosition(mgl64.Vec3{0, -15, 0})), fs)
	Expect(err).NotTo(HaveOccurred())
	l.Reset(root, root.Compose(geom.FromPosition(mgl64.Vec3{0, 0, 90})))
	return l
}

func expectPhasesInRange(l *loco.Locomotor, feet []loco.FootStatus) {
	Expect(l.Phase()).To(BeNumerically(">=", 0))
	Expect(l.Phase()).To(BeNumerically("<", 1))
	for _, f := range feet {
		Expect(f.Phase).To(BeNumerically(">=", 0))
		Expect(f.Phase).To(BeNumerically("<", 1))
		Expect(f.TargetPhase).To(BeNumerically(">=", 0))
		Expect(f.TargetPhase).To(BeNumerically("<", 1))
	}
}

// walk drives l along +X at speed for duration, then holds the goal for
// hold seconds. Frame times come from next.
func walk(l *loco.Locomotor, s loco.Settings, speed, duration, hold float64, next func() float64) geom.Transform {
	t := 0.0
	goal := s.RootGoal
	start := goal.Translation
	var feet []loco.FootStatus
	for t < duration+hold {
		dt := next()
		t += dt
		moved := math.Min(t, duration) * speed
		goal.Translation = start.Add(geom.Forward.Mul(moved))
		s.RootGoal = goal
		s.DeltaTime = dt
		l.RunSimulation(s)
		feet = l.Feet(feet)
		expectPhasesInRange(l, feet)
	}
	return goal
}

func fixedFrames() float64 { return frame }

var _ = Describe("Locomotor", func() {
	var (
		root geom.Transform
		s    loco.Settings
	)

	BeforeEach(func() {
		root = geom.FromPositionYaw(mgl64.Vec3{10, 5, 0}, 0.3)
		s = loco.DefaultSettings()
		s.RootGoal = root
		s.DeltaTime = frame
	})

	Describe("at rest", func() {
		It("holds the initial pose while the goal holds", func() {
			l := newBiped(root)
			initialPelvis := root.Compose(geom.FromPosition(mgl64.Vec3{0, 0, 90}))
			initialFeet := []geom.Transform{
				root.Compose(geom.FromPosition(mgl64.Vec3{0, 15, 0})),
				root.Compose(geom.FromPosition(mgl64.Vec3{0, -15, 0})),
			}

			l.RunSimulation(s)
			phase := l.Phase()
			feet := make([]geom.Transform, l.FootCount())

			for i := 0; i < 240; i++ {
				Expect(l.RunSimulation(s)).To(Equal(2))
				Expect(l.FullyAtRest()).To(BeTrue())
				Expect(l.Phase()).To(Equal(phase))
				Expect(l.Speed()).To(Equal(s.Movement.SpeedMin))
				Expect(l.PelvisTransform().ApproxEqual(initialPelvis, 1e-6)).To(BeTrue(), "pelvis %v", l.PelvisTransform())
				Expect(l.BodyTransform().ApproxEqual(root, 1e-6)).To(BeTrue())

				Expect(l.FootTransforms(feet)).To(Succeed())
				for j := range feet {
					Expect(feet[j].ApproxEqual(initialFeet[j], 1e-6)).To(BeTrue())
				}
			}
		})

		It("stays at rest for goal motion under the minimum step length", func() {
			l := newBiped(root)
			s.RootGoal = root.Compose(geom.FromPosition(mgl64.Vec3{s.Movement.MinStepLength * 0.8, 0, 0}))
			for i := 0; i < 120; i++ {
				l.RunSimulation(s)
			}
			Expect(l.FullyAtRest()).To(BeTrue())
		})

		It("uses only the latest Reset", func() {
			l := loco.New(loco.WithGroundProbe(flatGround))
			a := geom.FromPositionYaw(mgl64.Vec3{-200, 40, 0}, 1.2)
			b := geom.FromPositionYaw(mgl64.Vec3{300, -80, 0}, -0.4)
			pelvisA := a.Compose(geom.FromPosition(mgl64.Vec3{0, 0, 50}))
			pelvisB := b.Compose(geom.FromPosition(mgl64.Vec3{5, 0, 90}))

			set := l.AddFootSet(0)
			_, err := l.AddFootToSet(set, b.Compose(geom.FromPosition(mgl64.Vec3{0, 12, 0})), loco.DefaultFootSettings())
			Expect(err).NotTo(HaveOccurred())
			_, err = l.AddFootToSet(set, b.Compose(geom.FromPosition(mgl64.Vec3{0, -12, 0})), loco.DefaultFootSettings())
			Expect(err).NotTo(HaveOccurred())

			l.Reset(a, pelvisA)
			l.Reset(b, pelvisB)

			s.RootGoal = b
			for i := 0; i < 30; i++ {
				l.RunSimulation(s)
			}
			Expect(l.FullyAtRest()).To(BeTrue())
			Expect(l.PelvisTransform().ApproxEqual(pelvisB, 1e-6)).To(BeTrue())
			Expect(l.BodyTransform().ApproxEqual(b, 1e-6)).To(BeTrue())
		})
	})

	Describe("walking", func() {
		It("keeps a biped half a cycle apart with bounded strides", func() {
			l := newBiped(root)
			goal := s.RootGoal
			speed := 60.0

			planted := make([]mgl64.Vec3, 2)
			var strides []float64
			l.RunSimulation(s)
			feet := l.Feet(nil)
			for i := range feet {
				planted[i] = feet[i].Planted.Translation
			}

			for i := 1; i <= 300; i++ {
				goal.Translation = root.Translation.Add(root.Forward().Mul(speed * frame * float64(i)))
				s.RootGoal = goal
				l.RunSimulation(s)

				feet = l.Feet(feet)
				expectPhasesInRange(l, feet)
				for j, f := range feet {
					if d := f.Planted.Translation.Sub(planted[j]).Len(); d > 1e-9 {
						strides = append(strides, d)
						planted[j] = f.Planted.Translation
					}
				}
			}

			Expect(l.FullyAtRest()).To(BeFalse())

			diff := loco.Wrap(feet[1].Phase - feet[0].Phase)
			Expect(diff).To(BeNumerically("~", 0.5, 0.02))

			Expect(len(strides)).To(BeNumerically(">", 4))
			maxStride := s.Movement.SpeedMax/s.Movement.PhaseSpeedMax + 2
			for _, d := range strides {
				Expect(d).To(BeNumerically(">=", 0.5*s.Movement.MinStepLength))
				Expect(d).To(BeNumerically("<=", maxStride))
			}
		})

		It("never overlaps feet that start close together", func() {
			l := loco.New(loco.WithGroundProbe(flatGround))
			set := l.AddFootSet(0)
			fs := loco.DefaultFootSettings()
			_, err := l.AddFootToSet(set, root.Compose(geom.FromPosition(mgl64.Vec3{0, 7, 0})), fs)
			Expect(err).NotTo(HaveOccurred())
			_, err = l.AddFootToSet(set, root.Compose(geom.FromPosition(mgl64.Vec3{0, -7, 0})), fs)
			Expect(err).NotTo(HaveOccurred())
			l.Reset(root, root)

			goal := root
			var feet []loco.FootStatus
			for i := 1; i <= 240; i++ {
				goal.Translation = root.Translation.Add(root.Forward().Mul(50 * frame * float64(i)))
				s.RootGoal = goal
				l.RunSimulation(s)
				feet = l.Feet(feet)
				gap := geom.FlatDistance(feet[0].Target.Translation, feet[1].Target.Translation)
				if feet[0].InSwing || feet[1].InSwing {
					Expect(gap).To(BeNumerically(">=", 2*fs.CollisionRadius-1e-6))
				}
			}
		})

		It("comes to rest at the goal once the goal stops", func() {
			l := newBiped(root)
			goal := walk(l, s, 60, 3, 6, fixedFrames)

			Expect(l.FullyAtRest()).To(BeTrue())
			Expect(l.Speed()).To(Equal(s.Movement.SpeedMin))
			Expect(geom.FlatDistance(l.BodyTransform().Translation, goal.Translation)).
				To(BeNumerically("<=", s.Movement.MinStepLength))
			Expect(l.BobOffset()).To(BeNumerically("~", 0, 0.05))
		})

		It("ends in the same place under jittered frame times", func() {
			steady := newBiped(root)
			goal := walk(steady, s, 60, 3, 6, fixedFrames)

			rng := rand.New(rand.NewSource(7))
			jittered := newBiped(root)
			walk(jittered, s, 60, 3, 6, func() float64 {
				return 1.0/90 + rng.Float64()*(1.0/30-1.0/90)
			})

			Expect(jittered.FullyAtRest()).To(BeTrue())
			Expect(geom.FlatDistance(jittered.BodyTransform().Translation, goal.Translation)).
				To(BeNumerically("<=", s.Movement.MinStepLength))
			Expect(geom.FlatDistance(jittered.BodyTransform().Translation, steady.BodyTransform().Translation)).
				To(BeNumerically("<=", 2*s.Movement.MinStepLength))
		})
	})

	Describe("sub-stepping", func() {
		It("runs two fixed steps per 60 Hz frame", func() {
			l := newBiped(root)
			Expect(l.RunSimulation(s)).To(Equal(2))
		})

		It("carries time shorter than a step to the next frame", func() {
			l := newBiped(root)
			s.DeltaTime = loco.MinStepTime / 2
			Expect(l.RunSimulation(s)).To(Equal(0))
			Expect(l.RunSimulation(s)).To(Equal(1))
		})

		It("drops time beyond the cap", func() {
			l := newBiped(root)
			s.DeltaTime = 10
			Expect(l.RunSimulation(s)).To(Equal(loco.DefaultMaxSubSteps))

			s.DeltaTime = loco.MinStepTime / 2
			Expect(l.RunSimulation(s)).To(Equal(0))
		})

		It("honours WithMaxSubSteps", func() {
			l := loco.New(loco.WithMaxSubSteps(4))
			s.DeltaTime = 1
			Expect(l.RunSimulation(s)).To(Equal(4))
		})

		It("ignores non-positive and non-finite frame times", func() {
			l := newBiped(root)
			for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
				s.DeltaTime = dt
				Expect(l.RunSimulation(s)).To(Equal(0))
			}
			Expect(l.Steps()).To(BeZero())
		})
	})

	Describe("topology", func() {
		It("handles a rig with no feet", func() {
			l := loco.New()
			pelvis := root.Compose(geom.FromPosition(mgl64.Vec3{0, 0, 40}))
			l.Reset(root, pelvis)
			for i := 0; i < 10; i++ {
				l.RunSimulation(s)
			}
			Expect(l.FullyAtRest()).To(BeTrue())
			Expect(l.BodyTransform().ApproxEqual(root, 1e-9)).To(BeTrue())
			Expect(l.PelvisTransform().ApproxEqual(pelvis, 1e-9)).To(BeTrue())
			Expect(l.FootTransforms(nil)).To(Succeed())
		})

		It("rejects unknown foot sets", func() {
			l := loco.New()
			idx, err := l.AddFootToSet(3, root, loco.DefaultFootSettings())
			Expect(err).To(MatchError(loco.ErrInvalidFootSet))
			Expect(idx).To(Equal(loco.InvalidIndex))
			Expect(l.FootCount()).To(BeZero())

			idx, err = l.AddFootToSet(-1, root, loco.DefaultFootSettings())
			Expect(err).To(MatchError(loco.ErrInvalidFootSet))
			Expect(idx).To(Equal(loco.InvalidIndex))
		})

		It("issues per-set foot indices", func() {
			l := loco.New()
			a := l.AddFootSet(0)
			b := l.AddFootSet(0.5)
			Expect([]int{a, b}).To(Equal([]int{0, 1}))

			i0, _ := l.AddFootToSet(a, root, loco.DefaultFootSettings())
			j0, _ := l.AddFootToSet(b, root, loco.DefaultFootSettings())
			i1, _ := l.AddFootToSet(a, root, loco.DefaultFootSettings())
			Expect([]int{i0, j0, i1}).To(Equal([]int{0, 0, 1}))
			Expect(l.FootCount()).To(Equal(3))
			Expect(l.FootSetCount()).To(Equal(2))

			_, err := l.Foot(b, 1)
			Expect(err).To(MatchError(loco.ErrInvalidFoot))
			_, err = l.FootTransform(5, 0)
			Expect(err).To(MatchError(loco.ErrInvalidFootSet))
		})

		It("leaves the output untouched on a size mismatch", func() {
			l := newBiped(root)
			l.RunSimulation(s)
			dst := []geom.Transform{geom.FromPosition(mgl64.Vec3{1, 2, 3})}
			Expect(l.FootTransforms(dst)).To(MatchError(loco.ErrFootCountMismatch))
			Expect(dst[0].Translation).To(Equal(mgl64.Vec3{1, 2, 3}))
		})

		It("keeps a head only once initialised", func() {
			l := loco.New()
			_, ok := l.Head()
			Expect(ok).To(BeFalse())

			head := geom.FromPosition(mgl64.Vec3{0, 0, 160})
			l.InitializeHead(head)
			got, ok := l.Head()
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(head))
		})
	})
})
