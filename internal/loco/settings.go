package loco

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
)

// Fixed-step bounds, in seconds.
const (
	MaxStepTime = 1.0 / 120
	MinStepTime = 1.0 / 480

	// DefaultMaxSubSteps bounds the catch-up after a long pause.
	DefaultMaxSubSteps = 64

	// Swing may never occupy more than this fraction of the cycle.
	maxAirTimeFraction = 0.95
)

// MovementSettings controls travel speed and gait frequency.
type MovementSettings struct {
	MinStepLength float64 `yaml:"min_step_length"`
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	PhaseSpeedMin float64 `yaml:"phase_speed_min"`
	PhaseSpeedMax float64 `yaml:"phase_speed_max"`
	Acceleration  float64 `yaml:"acceleration"`
	Deceleration  float64 `yaml:"deceleration"`
}

// SteppingSettings controls individual steps.
type SteppingSettings struct {
	AirTimeFractionMin         float64 `yaml:"air_time_fraction_min"`
	AirTimeExtensionAtMaxSpeed float64 `yaml:"air_time_extension_at_max_speed"`
	StepHeight                 float64 `yaml:"step_height"`
	EaseIn                     float64 `yaml:"ease_in"`
	EaseOut                    float64 `yaml:"ease_out"`

	FootCollisionEnabled bool    `yaml:"foot_collision_enabled"`
	FootCollisionScale   float64 `yaml:"foot_collision_scale"`

	GroundCollisionEnabled bool         `yaml:"ground_collision_enabled"`
	MaxCollisionHeight     float64      `yaml:"max_collision_height"`
	GroundOrientPitch      float64      `yaml:"ground_orient_pitch"`
	GroundOrientRoll       float64      `yaml:"ground_orient_roll"`
	TraceChannel           TraceChannel `yaml:"trace_channel"`

	TargetStiffness   float64 `yaml:"target_stiffness"`
	TargetDamping     float64 `yaml:"target_damping"`
	RotationStiffness float64 `yaml:"rotation_stiffness"`
	RotationDamping   float64 `yaml:"rotation_damping"`
}

// PelvisSettings controls the body and pelvis.
type PelvisSettings struct {
	LeadAmount          float64 `yaml:"lead_amount"`
	LeadDampingHalfLife float64 `yaml:"lead_damping_half_life"`
	BobOffset           float64 `yaml:"bob_offset"`
	BobStiffness        float64 `yaml:"bob_stiffness"`
	BobDamping          float64 `yaml:"bob_damping"`
	GroundOrientPitch   float64 `yaml:"ground_orient_pitch"`
	GroundOrientRoll    float64 `yaml:"ground_orient_roll"`
	RotationStiffness   float64 `yaml:"rotation_stiffness"`
	RotationDamping     float64 `yaml:"rotation_damping"`
}

// FootSettings is the per-foot profile, fixed when the foot is added.
type FootSettings struct {
	CollisionRadius float64
	// MaxHeelPeelRotation is in degrees.
	MaxHeelPeelRotation float64
	StaticPhaseOffset   float64
	// StaticLocalOffset is applied in root-goal space.
	StaticLocalOffset mgl64.Vec3
}

// Settings is the per-tick input. It is copied on entry to RunSimulation.
type Settings struct {
	RootGoal  geom.Transform
	DeltaTime float64

	Movement MovementSettings
	Stepping SteppingSettings
	Pelvis   PelvisSettings
}

func DefaultMovementSettings() MovementSettings {
	return MovementSettings{
		MinStepLength: 10,
		SpeedMin:      50,
		SpeedMax:      80,
		PhaseSpeedMin: 1.0,
		PhaseSpeedMax: 1.4,
		Acceleration:  60,
		Deceleration:  90,
	}
}

func DefaultSteppingSettings() SteppingSettings {
	return SteppingSettings{
		AirTimeFractionMin:         0.4,
		AirTimeExtensionAtMaxSpeed: 0.1,
		StepHeight:                 8,
		EaseIn:                     0.5,
		EaseOut:                    0.5,
		FootCollisionEnabled:       true,
		FootCollisionScale:         1,
		GroundCollisionEnabled:     true,
		MaxCollisionHeight:         30,
		GroundOrientPitch:          1,
		GroundOrientRoll:           1,
		TraceChannel:               ChannelWorldStatic,
		TargetStiffness:            400,
		TargetDamping:              40,
		RotationStiffness:          600,
		RotationDamping:            49,
	}
}

func DefaultPelvisSettings() PelvisSettings {
	return PelvisSettings{
		LeadAmount:          6,
		LeadDampingHalfLife: 0.2,
		BobOffset:           -2,
		BobStiffness:        120,
		BobDamping:          14,
		GroundOrientPitch:   0.5,
		GroundOrientRoll:    0.5,
		RotationStiffness:   80,
		RotationDamping:     14,
	}
}

func DefaultFootSettings() FootSettings {
	return FootSettings{
		CollisionRadius:     6,
		MaxHeelPeelRotation: 20,
	}
}

// DefaultSettings returns a biped profile with an identity root goal.
func DefaultSettings() Settings {
	return Settings{
		RootGoal: geom.Identity(),
		Movement: DefaultMovementSettings(),
		Stepping: DefaultSteppingSettings(),
		Pelvis:   DefaultPelvisSettings(),
	}
}

// speedFraction is where speed sits within [SpeedMin, SpeedMax].
func (m MovementSettings) speedFraction(speed float64) float64 {
	span := m.SpeedMax - m.SpeedMin
	if span <= 0 {
		return 0
	}
	return geom.Clamp01((speed - m.SpeedMin) / span)
}

// swingEnd is the phase at which a swing started now would end.
func (s SteppingSettings) swingEnd(speedFraction float64) float64 {
	lo := geom.Clamp01(s.AirTimeFractionMin)
	hi := lo + s.AirTimeExtensionAtMaxSpeed
	if hi > maxAirTimeFraction {
		hi = maxAirTimeFraction
	}
	if lo > hi {
		lo = hi
	}
	end := geom.LerpScalar(lo, hi, speedFraction)
	if end <= 0 {
		end = MinStepTime
	}
	return end
}
