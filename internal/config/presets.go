package config

import "github.com/elliotchance/orderedmap/v2"

// Presets maps rig name to its named presets, in display order.
var Presets = buildPresets()

func preset(name string, legs int, gait, path string, tune func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Rig.Legs = legs
	cfg.Rig.Gait = gait
	cfg.Path = path
	if tune != nil {
		tune(cfg)
	}
	return cfg
}

func buildPresets() *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, *Config]] {
	all := orderedmap.NewOrderedMap[string, *orderedmap.OrderedMap[string, *Config]]()

	biped := orderedmap.NewOrderedMap[string, *Config]()
	biped.Set("walk", preset("biped_walk", 2, "alternate", "line", nil))
	biped.Set("stroll", preset("biped_stroll", 2, "alternate", "circle", func(c *Config) {
		c.Goal.Speed = 40
		c.Movement.SpeedMin = 30
		c.Movement.SpeedMax = 55
	}))
	biped.Set("stop_and_go", preset("biped_stop_and_go", 2, "alternate", "stop_and_go", func(c *Config) {
		c.Duration = 16
	}))
	biped.Set("hitch", preset("biped_hitch", 2, "alternate", "line", func(c *Config) {
		c.Jitter = 0.5
		c.Pauses = []Pause{{At: 3, Length: 0.75}, {At: 6, Length: 2}}
	}))
	all.Set("biped", biped)

	quadruped := orderedmap.NewOrderedMap[string, *Config]()
	quadruped.Set("trot", preset("quadruped_trot", 4, "alternate", "line", func(c *Config) {
		c.Rig.StanceLength = 70
		c.Movement.SpeedMax = 110
		c.Goal.Speed = 90
	}))
	quadruped.Set("circle", preset("quadruped_circle", 4, "wave", "circle", func(c *Config) {
		c.Rig.StanceLength = 70
	}))
	all.Set("quadruped", quadruped)

	hexapod := orderedmap.NewOrderedMap[string, *Config]()
	hexapod.Set("tripod", preset("hexapod_tripod", 6, "tripod", "line", func(c *Config) {
		c.Rig.StanceWidth = 50
		c.Rig.PelvisHeight = 40
		c.Stepping.StepHeight = 10
	}))
	hexapod.Set("slope", preset("hexapod_slope", 6, "tripod", "line", func(c *Config) {
		c.Ground = "slope"
		c.Rig.StanceWidth = 50
		c.Rig.PelvisHeight = 40
	}))
	all.Set("hexapod", hexapod)

	octopod := orderedmap.NewOrderedMap[string, *Config]()
	octopod.Set("wave", preset("octopod_wave", 8, "wave", "zigzag", func(c *Config) {
		c.Rig.StanceWidth = 60
		c.Rig.StanceLength = 30
		c.Rig.PelvisHeight = 35
	}))
	octopod.Set("steps", preset("octopod_steps", 8, "wave", "line", func(c *Config) {
		c.Ground = "steps"
		c.Rig.StanceWidth = 60
		c.Rig.StanceLength = 30
		c.Rig.PelvisHeight = 35
		c.Stepping.StepHeight = 12
	}))
	all.Set("octopod", octopod)

	return all
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(rig, name string) *Config {
	rigPresets, ok := Presets.Get(rig)
	if !ok {
		return nil
	}
	cfg, ok := rigPresets.Get(name)
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(rig string) []string {
	rigPresets, ok := Presets.Get(rig)
	if !ok {
		return nil
	}
	return rigPresets.Keys()
}

func ListRigs() []string {
	return Presets.Keys()
}
