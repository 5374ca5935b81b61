package sim

import (
	"fmt"

	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/loco"
)

// Session is one locomotor being driven frame by frame along the simulator's
// path. Run and RunWithCallback use a session internally; interactive hosts
// that pick their own frame times use one directly.
type Session struct {
	l        *loco.Locomotor
	path     GoalPath
	settings loco.Settings
	buf      *[]loco.FootStatus
	t        float64
	frame    int
}

// Start builds a fresh locomotor at the start of the path. Close the session
// when done.
func (s *Simulator) Start() (*Session, error) {
	l, err := s.build(s.path.Goal(0))
	if err != nil {
		return nil, fmt.Errorf("build rig: %w", err)
	}
	return &Session{
		l:        l,
		path:     s.path,
		settings: s.settings,
		buf:      statuses.Get(),
	}, nil
}

// Advance moves host time forward by dt, ticks the locomotor once and
// returns the resulting sample.
func (ss *Session) Advance(dt float64) Sample {
	ss.t += dt
	ss.settings.RootGoal = ss.path.Goal(ss.t)
	ss.settings.DeltaTime = dt
	n := ss.l.RunSimulation(ss.settings)

	sample := capture(ss.l, ss.buf, ss.frame, ss.t, dt, n, ss.settings.RootGoal)
	ss.frame++
	return sample
}

func (ss *Session) Time() float64              { return ss.t }
func (ss *Session) Frame() int                 { return ss.frame }
func (ss *Session) Locomotor() *loco.Locomotor { return ss.l }

// Settings returns the settings used for the next tick. Changes take effect
// on the next Advance.
func (ss *Session) Settings() *loco.Settings { return &ss.settings }

func (ss *Session) Close() {
	if ss.buf != nil {
		statuses.Put(ss.buf)
		ss.buf = nil
	}
}

func capture(l *loco.Locomotor, buf *[]loco.FootStatus, frame int, t, dt float64, subSteps int, goal geom.Transform) Sample {
	*buf = l.Feet(*buf)
	feet := make([]FootSample, len(*buf))
	for i, f := range *buf {
		feet[i] = FootSample{
			Position: f.Current.Translation,
			Planted:  f.Planted.Translation,
			Yaw:      geom.Yaw(f.Current.Rotation),
			Phase:    f.Phase,
			Height:   f.StrideHeight,
			Radius:   f.Radius,
			InSwing:  f.InSwing,
			AtRest:   f.AtRest,
		}
	}
	return Sample{
		Frame:        frame,
		Time:         t,
		Dt:           dt,
		SubSteps:     subSteps,
		Phase:        l.Phase(),
		Speed:        l.Speed(),
		PhaseSpeed:   l.PhaseSpeed(),
		StrideLength: l.StrideLength(),
		AtRest:       l.FullyAtRest(),
		Bob:          l.BobOffset(),
		Goal:         goal,
		Body:         l.BodyTransform(),
		Pelvis:       l.PelvisTransform(),
		Feet:         feet,
	}
}
