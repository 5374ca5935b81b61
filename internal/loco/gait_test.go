package loco_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/ground"
	"github.com/san-kum/locosim/internal/loco"
)

// yawAbout turns t by angle about the vertical axis through pivot.
func yawAbout(t geom.Transform, pivot mgl64.Vec3, angle float64) geom.Transform {
	q := mgl64.QuatRotate(angle, geom.Up)
	return geom.Transform{
		Translation: pivot.Add(q.Rotate(t.Translation.Sub(pivot))),
		Rotation:    q.Mul(t.Rotation).Normalize(),
	}
}

var _ = Describe("Gait", func() {
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

	Describe("leaving rest", func() {
		DescribeTable("steps the far foot first from phase zero",
			func(pivot, lead int) {
				l := newBiped(root)
				l.RunSimulation(s)
				feet := l.Feet(nil)
				Expect(l.FullyAtRest()).To(BeTrue())

				s.RootGoal = yawAbout(root, feet[pivot].Planted.Translation, 0.9)
				l.RunSimulation(s)
				feet = l.Feet(feet)

				Expect(l.FullyAtRest()).To(BeFalse())
				Expect(feet[lead].InSwing).To(BeTrue())
				Expect(feet[lead].Phase).To(BeNumerically("<", 0.02))
				Expect(feet[lead].SwingStart).To(BeZero())
				Expect(feet[pivot].InSwing).To(BeFalse())
				Expect(feet[pivot].AtRest).To(BeTrue())
				Expect(feet[pivot].Phase).To(BeNumerically("~", 0.5, 0.02))
			},
			Entry("turning about the left foot", 0, 1),
			Entry("turning about the right foot", 1, 0),
		)
	})

	Describe("ground alignment", func() {
		const pitch = 0.15

		standOnSlope := func() *loco.Locomotor {
			origin := geom.Identity()
			s.RootGoal = origin
			l := newBipedOn(origin, ground.Slope{Pitch: pitch}, loco.DefaultFootSettings())
			for i := 0; i < 240; i++ {
				l.RunSimulation(s)
			}
			Expect(l.FullyAtRest()).To(BeTrue())
			return l
		}

		It("tilts the body towards the slope by the pelvis pitch scale", func() {
			l := standOnSlope()
			body := l.BodyTransform()

			tilt := math.Acos(mgl64.Clamp(body.Up().Z(), -1, 1))
			Expect(tilt).To(BeNumerically("~", s.Pelvis.GroundOrientPitch*pitch, 1e-3))
			Expect(body.Forward().Z()).To(BeNumerically(">", 0), "nose should rise with the ground")

			normal := ground.Slope{Pitch: pitch}.Normal(0, 0)
			Expect(body.Up().Dot(normal)).To(BeNumerically(">", geom.Up.Dot(normal)))
			Expect(body.Left().Z()).To(BeNumerically("~", 0, 1e-6))
		})

		It("keeps the body upright when orientation is disabled", func() {
			s.Pelvis.GroundOrientPitch = 0
			s.Pelvis.GroundOrientRoll = 0
			l := standOnSlope()
			Expect(l.BodyTransform().Up().ApproxEqualThreshold(geom.Up, 1e-9)).To(BeTrue())
		})

		It("tilts planted feet fully onto the slope", func() {
			l := standOnSlope()
			s.RootGoal = geom.FromPosition(mgl64.Vec3{40, 0, 0})
			for i := 0; i < 300; i++ {
				l.RunSimulation(s)
			}
			for _, f := range l.Feet(nil) {
				tilt := math.Acos(mgl64.Clamp(f.Planted.Up().Z(), -1, 1))
				Expect(tilt).To(BeNumerically("~", pitch, 1e-6))
				Expect(f.Planted.Translation.Z()).To(BeNumerically("~", f.Planted.Translation.X()*math.Tan(pitch), 1e-6))
			}
		})
	})

	Describe("lead", func() {
		It("leans ahead while accelerating and back while slowing down", func() {
			s.Pelvis.LeadDampingHalfLife = 0.05
			l := newBiped(root)
			fwd := root.Forward()
			goal := root

			ahead, behind := 0.0, 0.0
			const moving = 240
			for i := 1; i <= moving+600; i++ {
				if i <= moving {
					goal.Translation = root.Translation.Add(fwd.Mul(90 * frame * float64(i)))
				}
				s.RootGoal = goal
				l.RunSimulation(s)

				lead := l.BodyTransform().Translation.Sub(l.BodyTargetTransform().Translation)
				Expect(lead.Len()).To(BeNumerically("<=", s.Pelvis.LeadAmount+1e-9))
				along := lead.Dot(fwd)
				if i <= moving && l.Accelerating() {
					ahead = math.Max(ahead, along)
				}
				if i > moving && !l.FullyAtRest() {
					behind = math.Min(behind, along)
				}
			}

			Expect(ahead).To(BeNumerically(">", 0.25*s.Pelvis.LeadAmount))
			Expect(behind).To(BeNumerically("<", 0))
			Expect(l.FullyAtRest()).To(BeTrue())
			lead := l.BodyTransform().Translation.Sub(l.BodyTargetTransform().Translation)
			Expect(lead.Len()).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("bob", func() {
		It("drops the pelvis by the fraction of feet not at rest", func() {
			s.Stepping.StepHeight = 0
			s.Pelvis.BobStiffness = 2500
			s.Pelvis.BobDamping = 100
			l := newBiped(root)
			goal := root

			sum, n := 0.0, 0
			for i := 1; i <= 300; i++ {
				goal.Translation = root.Translation.Add(root.Forward().Mul(60 * frame * float64(i)))
				s.RootGoal = goal
				l.RunSimulation(s)

				bob := l.BobOffset()
				Expect(bob).To(BeNumerically(">=", s.Pelvis.BobOffset-0.2))
				Expect(bob).To(BeNumerically("<=", 0.2))
				pelvisZ := l.BodyTransform().Translation.Z() + 90 + bob
				Expect(l.PelvisTransform().Translation.Z()).To(BeNumerically("~", pelvisZ, 1e-6))
				if i > 60 {
					sum += bob
					n++
				}
			}
			Expect(sum / float64(n)).To(BeNumerically("<", 0.5*s.Pelvis.BobOffset))

			for i := 0; i < 480; i++ {
				l.RunSimulation(s)
			}
			Expect(l.FullyAtRest()).To(BeTrue())
			Expect(l.BobOffset()).To(BeNumerically("~", 0, 1e-3))
		})
	})

	Describe("per-foot settings", func() {
		It("moves the rest target by the static local offset", func() {
			offset := mgl64.Vec3{20, 0, 0}
			l := loco.New(loco.WithGroundProbe(flatGround))
			left := l.AddFootSet(0)
			right := l.AddFootSet(0.5)
			plain := loco.DefaultFootSettings()
			shifted := loco.DefaultFootSettings()
			shifted.StaticLocalOffset = offset
			leftAt := root.Compose(geom.FromPosition(mgl64.Vec3{0, 15, 0}))
			rightAt := root.Compose(geom.FromPosition(mgl64.Vec3{0, -15, 0}))
			_, err := l.AddFootToSet(left, leftAt, plain)
			Expect(err).NotTo(HaveOccurred())
			_, err = l.AddFootToSet(right, rightAt, shifted)
			Expect(err).NotTo(HaveOccurred())
			l.Reset(root, root.Compose(geom.FromPosition(mgl64.Vec3{0, 0, 90})))

			l.RunSimulation(s)
			feet := l.Feet(nil)
			Expect(feet[0].Final.Translation.ApproxEqualThreshold(leftAt.Translation, 1e-9)).To(BeTrue())
			moved := feet[1].Final.Translation.Sub(rightAt.Translation)
			Expect(moved.ApproxEqualThreshold(root.Rotation.Rotate(offset), 1e-9)).To(BeTrue(), "moved %v", moved)
			Expect(feet[1].InSwing).To(BeTrue())

			for i := 0; i < 240; i++ {
				l.RunSimulation(s)
			}
			feet = l.Feet(feet)
			Expect(l.FullyAtRest()).To(BeTrue())
			Expect(feet[0].Planted.Translation.ApproxEqualThreshold(leftAt.Translation, 1e-9)).To(BeTrue())
			Expect(feet[1].Planted.Translation.Sub(feet[1].Final.Translation).Len()).
				To(BeNumerically("<", 0.5*s.Movement.MinStepLength))
		})

		It("shifts a foot's phase by its static phase offset", func() {
			l := loco.New(loco.WithGroundProbe(flatGround))
			set := l.AddFootSet(0)
			fs := loco.DefaultFootSettings()
			_, err := l.AddFootToSet(set, root.Compose(geom.FromPosition(mgl64.Vec3{0, 15, 0})), fs)
			Expect(err).NotTo(HaveOccurred())
			fs.StaticPhaseOffset = 1.25
			_, err = l.AddFootToSet(set, root.Compose(geom.FromPosition(mgl64.Vec3{0, -15, 0})), fs)
			Expect(err).NotTo(HaveOccurred())
			l.Reset(root, root)

			goal := root
			var feet []loco.FootStatus
			for i := 1; i <= 180; i++ {
				goal.Translation = root.Translation.Add(root.Forward().Mul(50 * frame * float64(i)))
				s.RootGoal = goal
				l.RunSimulation(s)
				feet = l.Feet(feet)
				Expect(feet[0].TargetPhase).To(BeNumerically("~", l.Phase(), 1e-9))
				Expect(loco.Wrap(feet[1].TargetPhase - feet[0].TargetPhase)).To(BeNumerically("~", 0.25, 1e-9))
			}
		})

		DescribeTable("peels the heel during swing",
			func(peel float64, wantTilt bool) {
				fs := loco.DefaultFootSettings()
				fs.MaxHeelPeelRotation = peel
				l := newBipedOn(root, flatGround, fs)
				goal := root

				maxTilt := 0.0
				var feet []loco.FootStatus
				for i := 1; i <= 240; i++ {
					goal.Translation = root.Translation.Add(root.Forward().Mul(60 * frame * float64(i)))
					s.RootGoal = goal
					l.RunSimulation(s)
					feet = l.Feet(feet)
					for _, f := range feet {
						maxTilt = math.Max(maxTilt, math.Abs(math.Asin(mgl64.Clamp(f.Current.Forward().Z(), -1, 1))))
					}
				}

				if wantTilt {
					Expect(maxTilt).To(BeNumerically(">", mgl64.DegToRad(5)))
					Expect(maxTilt).To(BeNumerically("<", mgl64.DegToRad(1.5*peel)))
				} else {
					Expect(maxTilt).To(BeNumerically("<", 1e-6))
				}
			},
			Entry("with a peel angle", 20.0, true),
			Entry("without one", 0.0, false),
		)
	})
})
