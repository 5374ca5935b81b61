package experiment

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/ground"
	"github.com/san-kum/locosim/internal/sim"
)

// Idle holds the goal at the origin.
type Idle struct{}

func (Idle) Name() string                  { return "idle" }
func (Idle) Goal(t float64) geom.Transform { return geom.Identity() }

// Line walks along +X at Speed.
type Line struct {
	Speed float64
}

func (p Line) Name() string { return "line" }

func (p Line) Goal(t float64) geom.Transform {
	return geom.FromPosition(mgl64.Vec3{p.Speed * t, 0, 0})
}

// Circle turns left around (0, Radius), facing along the path.
type Circle struct {
	Speed  float64
	Radius float64
}

func (p Circle) Name() string { return "circle" }

func (p Circle) Goal(t float64) geom.Transform {
	if p.Radius <= 0 {
		return Line{Speed: p.Speed}.Goal(t)
	}
	a := p.Speed * t / p.Radius
	pos := mgl64.Vec3{p.Radius * math.Sin(a), p.Radius - p.Radius*math.Cos(a), 0}
	return geom.FromPositionYaw(pos, a)
}

// StopAndGo alternates Period seconds of walking with Period seconds
// standing still.
type StopAndGo struct {
	Speed  float64
	Period float64
}

func (p StopAndGo) Name() string { return "stop_and_go" }

func (p StopAndGo) Goal(t float64) geom.Transform {
	if p.Period <= 0 {
		return Line{Speed: p.Speed}.Goal(t)
	}
	cycles := math.Floor(t / (2 * p.Period))
	moving := cycles*p.Period + math.Min(t-cycles*2*p.Period, p.Period)
	return geom.FromPosition(mgl64.Vec3{p.Speed * moving, 0, 0})
}

// Zigzag walks along +X while swinging Amplitude to either side every
// Period seconds.
type Zigzag struct {
	Speed     float64
	Amplitude float64
	Period    float64
}

func (p Zigzag) Name() string { return "zigzag" }

func (p Zigzag) Goal(t float64) geom.Transform {
	if p.Period <= 0 {
		return Line{Speed: p.Speed}.Goal(t)
	}
	w := 2 * math.Pi * t / p.Period
	// triangle wave through the origin
	y := p.Amplitude * 2 / math.Pi * math.Asin(math.Sin(w))
	slope := 4 * p.Amplitude / p.Period
	if math.Cos(w) < 0 {
		slope = -slope
	}
	return geom.FromPositionYaw(mgl64.Vec3{p.Speed * t, y, 0}, math.Atan2(slope, p.Speed))
}

// onGround lifts a path onto a surface.
type onGround struct {
	path    sim.GoalPath
	surface ground.Surface
}

func (p onGround) Name() string { return p.path.Name() }

func (p onGround) Goal(t float64) geom.Transform {
	g := p.path.Goal(t)
	g.Translation[2] = p.surface.Height(g.Translation.X(), g.Translation.Y())
	return g
}
