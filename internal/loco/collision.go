package loco

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
)

const separationEpsilon = 1e-9

// resolveFootCollisions pushes swinging feet out of every other foot's
// footprint. Planted feet have infinite mass and never move. Overlap is
// measured between flat circles of radius CollisionRadius*scale; feet on
// the same spot separate along fallback.
func resolveFootCollisions(feet []foot, scale float64, fallback mgl64.Vec3) int {
	if scale <= 0 {
		return 0
	}
	fallback = geom.SafeNormalize(geom.Flatten(fallback), geom.Left)

	contacts := 0
	for i := range feet {
		a := &feet[i]
		if !a.inSwing {
			continue
		}
		for j := range feet {
			if j == i {
				continue
			}
			b := &feet[j]
			if separate(a, b, scale, fallback) {
				contacts++
			}
		}
	}
	return contacts
}

func separate(a, b *foot, scale float64, fallback mgl64.Vec3) bool {
	minDist := (a.settings.CollisionRadius + b.settings.CollisionRadius) * scale
	if minDist <= 0 {
		return false
	}
	delta := geom.Flatten(b.target.Translation.Sub(a.target.Translation))
	dist := delta.Len()
	overlap := minDist - dist
	if overlap <= 0 {
		return false
	}

	invA := inverseMass(a)
	invB := inverseMass(b)
	total := invA + invB
	if total == 0 {
		return false
	}

	var normal mgl64.Vec3
	if dist > separationEpsilon {
		normal = delta.Mul(1 / dist)
	} else {
		normal = fallback
	}

	a.nudge(normal.Mul(-overlap * invA / total))
	b.nudge(normal.Mul(overlap * invB / total))
	return true
}

func inverseMass(f *foot) float64 {
	if f.inSwing {
		return 1
	}
	return 0
}

func (f *foot) nudge(d mgl64.Vec3) {
	if d.Len() == 0 {
		return
	}
	f.target.Translation = f.target.Translation.Add(d)
	f.targetSpring.Value = f.targetSpring.Value.Add(d)
}
