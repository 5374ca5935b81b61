// Package ground provides analytic ground surfaces for driving a Locomotor
// outside a game engine. Each surface answers loco.GroundProbe sphere-casts.
package ground

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/loco"
)

// Surface is a height field z = Height(x, y).
type Surface interface {
	loco.GroundProbe
	Name() string
	Height(x, y float64) float64
	Normal(x, y float64) mgl64.Vec3
}

// probe casts down a height field. The contact point is always the surface
// under the cast's axis. On slopes the sphere radius only widens the hit
// window above the cast's top, since a sphere touches a tilted plane before
// its centre reaches it.
func probe(s Surface, req loco.ProbeRequest) loco.ProbeResult {
	x, y := req.Start.X(), req.Start.Y()
	h := s.Height(x, y)
	n := s.Normal(x, y)

	top := math.Max(req.Start.Z(), req.End.Z())
	bottom := math.Min(req.Start.Z(), req.End.Z())
	// extra reach above top on a tilted plane; the reported point is unchanged
	lift := 0.0
	if req.Radius > 0 && n.Z() > 0 {
		lift = req.Radius * (1/n.Z() - 1)
	}
	if h < bottom || h-lift > top {
		return loco.ProbeResult{}
	}
	return loco.ProbeResult{
		Hit:    true,
		Point:  mgl64.Vec3{x, y, h},
		Normal: n,
	}
}

// Flat is a horizontal plane.
type Flat struct {
	Z float64 `yaml:"z"`
}

func (f Flat) Name() string                                 { return "flat" }
func (f Flat) Height(x, y float64) float64                  { return f.Z }
func (f Flat) Normal(x, y float64) mgl64.Vec3               { return geom.Up }
func (f Flat) Probe(req loco.ProbeRequest) loco.ProbeResult { return probe(f, req) }

// Slope is a plane through the origin rising by Pitch radians along +X and
// Roll radians along +Y.
type Slope struct {
	Pitch float64 `yaml:"pitch"`
	Roll  float64 `yaml:"roll"`
}

func (s Slope) Name() string { return "slope" }

func (s Slope) Height(x, y float64) float64 {
	return x*math.Tan(s.Pitch) + y*math.Tan(s.Roll)
}

func (s Slope) Normal(x, y float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Tan(s.Pitch), -math.Tan(s.Roll), 1}.Normalize()
}

func (s Slope) Probe(req loco.ProbeRequest) loco.ProbeResult { return probe(s, req) }

// Steps is a staircase climbing along +X: every Run units the floor rises
// by Rise.
type Steps struct {
	Rise float64 `yaml:"rise"`
	Run  float64 `yaml:"run"`
}

func (s Steps) Name() string { return "steps" }

func (s Steps) Height(x, y float64) float64 {
	if s.Run <= 0 || x < 0 {
		return 0
	}
	return math.Floor(x/s.Run) * s.Rise
}

func (s Steps) Normal(x, y float64) mgl64.Vec3 { return geom.Up }

func (s Steps) Probe(req loco.ProbeRequest) loco.ProbeResult { return probe(s, req) }

// Ignoring wraps a probe and misses whenever the request names any of the
// listed actors.
type Ignoring struct {
	Surface
	Actors []string
}

func (i Ignoring) Probe(req loco.ProbeRequest) loco.ProbeResult {
	for _, ignored := range req.Ignore {
		for _, a := range i.Actors {
			if ignored == a {
				return loco.ProbeResult{}
			}
		}
	}
	return i.Surface.Probe(req)
}

var registry = map[string]func() Surface{
	"flat":  func() Surface { return Flat{} },
	"slope": func() Surface { return Slope{Pitch: 0.15} },
	"steps": func() Surface { return Steps{Rise: 6, Run: 40} },
}

// ByName returns a surface with default parameters.
func ByName(name string) (Surface, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown ground: %s", name)
	}
	return ctor(), nil
}

// Names lists the registered surfaces.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
