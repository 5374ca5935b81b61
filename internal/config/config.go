package config

import (
	"fmt"
	"os"

	"github.com/san-kum/locosim/internal/loco"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameRate    = 60.0
	DefaultDuration     = 10.0
	DefaultLegs         = 2
	DefaultStanceWidth  = 30.0
	DefaultStanceLength = 40.0
	DefaultPelvisHeight = 90.0
	DefaultGoalSpeed    = 60.0
)

type Config struct {
	Name        string                `yaml:"name"`
	Rig         RigConfig             `yaml:"rig"`
	Path        string                `yaml:"path"`
	Ground      string                `yaml:"ground"`
	FrameRate   float64               `yaml:"frame_rate"`
	Jitter      float64               `yaml:"jitter"`
	Duration    float64               `yaml:"duration"`
	Seed        int64                 `yaml:"seed"`
	MaxSubSteps int                   `yaml:"max_sub_steps"`
	Goal        GoalConfig            `yaml:"goal"`
	Pauses      []Pause               `yaml:"pauses,omitempty"`
	Movement    loco.MovementSettings `yaml:"movement"`
	Stepping    loco.SteppingSettings `yaml:"stepping"`
	Pelvis      loco.PelvisSettings   `yaml:"pelvis"`
}

// RigConfig describes a symmetric rig: Legs/2 pairs of feet spaced
// StanceLength apart front to back and StanceWidth apart side to side.
type RigConfig struct {
	Legs         int     `yaml:"legs"`
	Gait         string  `yaml:"gait"`
	StanceWidth  float64 `yaml:"stance_width"`
	StanceLength float64 `yaml:"stance_length"`
	PelvisHeight float64 `yaml:"pelvis_height"`
	FootRadius   float64 `yaml:"foot_radius"`
	HeelPeel     float64 `yaml:"heel_peel"`
}

// GoalConfig parameterises the root-goal path.
type GoalConfig struct {
	Speed     float64 `yaml:"speed"`
	Radius    float64 `yaml:"radius"`
	Period    float64 `yaml:"period"`
	Amplitude float64 `yaml:"amplitude"`
}

// Pause stalls the host for Length seconds at time At; the next frame then
// reports the whole stall as one delta time.
type Pause struct {
	At     float64 `yaml:"at"`
	Length float64 `yaml:"length"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "default",
		Path:      "line",
		Ground:    "flat",
		FrameRate: DefaultFrameRate,
		Duration:  DefaultDuration,
		Rig: RigConfig{
			Legs:         DefaultLegs,
			Gait:         "alternate",
			StanceWidth:  DefaultStanceWidth,
			StanceLength: DefaultStanceLength,
			PelvisHeight: DefaultPelvisHeight,
			FootRadius:   loco.DefaultFootSettings().CollisionRadius,
			HeelPeel:     loco.DefaultFootSettings().MaxHeelPeelRotation,
		},
		Goal: GoalConfig{
			Speed:     DefaultGoalSpeed,
			Radius:    150,
			Period:    4,
			Amplitude: 40,
		},
		MaxSubSteps: loco.DefaultMaxSubSteps,
		Movement:    loco.DefaultMovementSettings(),
		Stepping:    loco.DefaultSteppingSettings(),
		Pelvis:      loco.DefaultPelvisSettings(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Settings returns the per-tick locomotor settings with an identity root
// goal and no delta time.
func (c *Config) Settings() loco.Settings {
	s := loco.DefaultSettings()
	s.Movement = c.Movement
	s.Stepping = c.Stepping
	s.Pelvis = c.Pelvis
	return s
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Pauses = append([]Pause(nil), c.Pauses...)
	return &out
}
