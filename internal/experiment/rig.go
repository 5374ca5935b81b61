package experiment

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/ground"
	"github.com/san-kum/locosim/internal/loco"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "experiment",
})

// Gait assigns a phase offset to the foot on side (0 left, 1 right) of
// pair (0 front) in a rig with pairs leg pairs.
type Gait func(pair, side, pairs int) float64

func alternate(pair, side, pairs int) float64 {
	return 0.5 * float64((pair+side)%2)
}

func wave(pair, side, pairs int) float64 {
	return loco.Wrap(float64(pairs-1-pair)/float64(2*pairs) + 0.5*float64(side))
}

// FootLayout is one foot of a symmetric rig, in root-goal space.
type FootLayout struct {
	Local       mgl64.Vec3
	PhaseOffset float64
}

// Layout places cfg.Legs feet: pairs front to back, left before right.
func Layout(rig config.RigConfig, g Gait) ([]FootLayout, error) {
	if rig.Legs <= 0 || rig.Legs%2 != 0 {
		return nil, fmt.Errorf("legs must be a positive even number, got %d", rig.Legs)
	}
	pairs := rig.Legs / 2
	feet := make([]FootLayout, 0, rig.Legs)
	for pair := 0; pair < pairs; pair++ {
		x := (float64(pairs-1)/2 - float64(pair)) * rig.StanceLength
		for side := 0; side < 2; side++ {
			y := rig.StanceWidth / 2
			if side == 1 {
				y = -y
			}
			feet = append(feet, FootLayout{
				Local:       mgl64.Vec3{x, y, 0},
				PhaseOffset: g(pair, side, pairs),
			})
		}
	}
	return feet, nil
}

// BuildRig creates a locomotor for cfg standing at start on surface. Feet
// sharing a phase offset share a foot set.
func BuildRig(cfg *config.Config, g Gait, surface ground.Surface, start geom.Transform) (*loco.Locomotor, error) {
	layout, err := Layout(cfg.Rig, g)
	if err != nil {
		return nil, err
	}

	opts := []loco.Option{
		loco.WithMaxSubSteps(cfg.MaxSubSteps),
		loco.WithLogger(log.WithField("rig", cfg.Name)),
		loco.WithIgnore(cfg.Name),
	}
	if surface != nil {
		opts = append(opts, loco.WithGroundProbe(surface))
	}
	l := loco.New(opts...)

	sets := make(map[float64]int)
	fs := loco.FootSettings{
		CollisionRadius:     cfg.Rig.FootRadius,
		MaxHeelPeelRotation: cfg.Rig.HeelPeel,
	}
	for _, f := range layout {
		set, ok := sets[f.PhaseOffset]
		if !ok {
			set = l.AddFootSet(f.PhaseOffset)
			sets[f.PhaseOffset] = set
		}
		world := start.Compose(geom.FromPosition(f.Local))
		if surface != nil {
			world.Translation[2] = surface.Height(world.Translation.X(), world.Translation.Y())
		}
		if _, err := l.AddFootToSet(set, world, fs); err != nil {
			return nil, fmt.Errorf("add foot: %w", err)
		}
	}

	pelvis := start.Compose(geom.FromPosition(mgl64.Vec3{0, 0, cfg.Rig.PelvisHeight}))
	l.Reset(start, pelvis)

	log.WithFields(logrus.Fields{
		"rig":  cfg.Name,
		"feet": l.FootCount(),
		"sets": l.FootSetCount(),
	}).Debug("rig built")
	return l, nil
}
