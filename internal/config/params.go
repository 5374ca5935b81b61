package config

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

var ErrUnknownParam = errors.New("unknown parameter")

// param reaches one tunable number inside a Config.
type param func(c *Config) *float64

// Params lists the tunable parameters by dotted name, in display order.
var Params = buildParams()

func buildParams() *orderedmap.OrderedMap[string, param] {
	p := orderedmap.NewOrderedMap[string, param]()

	p.Set("goal.speed", func(c *Config) *float64 { return &c.Goal.Speed })
	p.Set("goal.radius", func(c *Config) *float64 { return &c.Goal.Radius })
	p.Set("goal.period", func(c *Config) *float64 { return &c.Goal.Period })
	p.Set("goal.amplitude", func(c *Config) *float64 { return &c.Goal.Amplitude })

	p.Set("frame_rate", func(c *Config) *float64 { return &c.FrameRate })
	p.Set("jitter", func(c *Config) *float64 { return &c.Jitter })
	p.Set("duration", func(c *Config) *float64 { return &c.Duration })

	p.Set("rig.stance_width", func(c *Config) *float64 { return &c.Rig.StanceWidth })
	p.Set("rig.stance_length", func(c *Config) *float64 { return &c.Rig.StanceLength })
	p.Set("rig.pelvis_height", func(c *Config) *float64 { return &c.Rig.PelvisHeight })
	p.Set("rig.foot_radius", func(c *Config) *float64 { return &c.Rig.FootRadius })
	p.Set("rig.heel_peel", func(c *Config) *float64 { return &c.Rig.HeelPeel })

	p.Set("movement.min_step_length", func(c *Config) *float64 { return &c.Movement.MinStepLength })
	p.Set("movement.speed_min", func(c *Config) *float64 { return &c.Movement.SpeedMin })
	p.Set("movement.speed_max", func(c *Config) *float64 { return &c.Movement.SpeedMax })
	p.Set("movement.phase_speed_min", func(c *Config) *float64 { return &c.Movement.PhaseSpeedMin })
	p.Set("movement.phase_speed_max", func(c *Config) *float64 { return &c.Movement.PhaseSpeedMax })
	p.Set("movement.acceleration", func(c *Config) *float64 { return &c.Movement.Acceleration })
	p.Set("movement.deceleration", func(c *Config) *float64 { return &c.Movement.Deceleration })

	p.Set("stepping.air_time_fraction_min", func(c *Config) *float64 { return &c.Stepping.AirTimeFractionMin })
	p.Set("stepping.air_time_extension_at_max_speed", func(c *Config) *float64 { return &c.Stepping.AirTimeExtensionAtMaxSpeed })
	p.Set("stepping.step_height", func(c *Config) *float64 { return &c.Stepping.StepHeight })
	p.Set("stepping.ease_in", func(c *Config) *float64 { return &c.Stepping.EaseIn })
	p.Set("stepping.ease_out", func(c *Config) *float64 { return &c.Stepping.EaseOut })
	p.Set("stepping.foot_collision_scale", func(c *Config) *float64 { return &c.Stepping.FootCollisionScale })
	p.Set("stepping.target_stiffness", func(c *Config) *float64 { return &c.Stepping.TargetStiffness })
	p.Set("stepping.target_damping", func(c *Config) *float64 { return &c.Stepping.TargetDamping })

	p.Set("pelvis.lead_amount", func(c *Config) *float64 { return &c.Pelvis.LeadAmount })
	p.Set("pelvis.lead_damping_half_life", func(c *Config) *float64 { return &c.Pelvis.LeadDampingHalfLife })
	p.Set("pelvis.bob_offset", func(c *Config) *float64 { return &c.Pelvis.BobOffset })
	p.Set("pelvis.bob_stiffness", func(c *Config) *float64 { return &c.Pelvis.BobStiffness })
	p.Set("pelvis.bob_damping", func(c *Config) *float64 { return &c.Pelvis.BobDamping })
	p.Set("pelvis.ground_orient_pitch", func(c *Config) *float64 { return &c.Pelvis.GroundOrientPitch })
	p.Set("pelvis.ground_orient_roll", func(c *Config) *float64 { return &c.Pelvis.GroundOrientRoll })

	return p
}

// SetParam sets a tunable parameter by its dotted name.
func (c *Config) SetParam(name string, value float64) error {
	get, ok := Params.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	*get(c) = value
	return nil
}

func (c *Config) GetParam(name string) (float64, error) {
	get, ok := Params.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return *get(c), nil
}

// ApplyParams sets every parameter in params, stopping at the first unknown
// name.
func (c *Config) ApplyParams(params map[string]float64) error {
	for name, v := range params {
		if err := c.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}

func ListParams() []string {
	return Params.Keys()
}
