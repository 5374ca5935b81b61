package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/locosim/internal/analysis"
	"github.com/san-kum/locosim/internal/sim"
	"github.com/san-kum/locosim/internal/viz"
)

const background = "#0a0a0a"

// FootColors cycles per foot index.
var FootColors = []string{"#ff6b6b", "#4ecdc4", "#ffd166", "#a29bfe", "#95e06c", "#fd79a8", "#74b9ff", "#e17055"}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.PixelSize()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// bounds frames a set of points with 10% padding and maps them onto a
// width by height image, +Y up.
type bounds struct {
	minX, minY, scale float64
	height            float64
}

func fit(points []analysis.Point, width, height int) bounds {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := math.Max(maxX-minX, 1)
	rangeY := math.Max(maxY-minY, 1)
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	// One scale for both axes so footprints stay round.
	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	return bounds{minX: minX, minY: minY, scale: scale, height: float64(height)}
}

func (b bounds) xy(x, y float64) (float64, float64) {
	return (x - b.minX) * b.scale, b.height - (y-b.minY)*b.scale
}

func path(sb *strings.Builder, b bounds, points []analysis.Point, stroke, extra string) {
	if len(points) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, stroke, extra))
	for i, p := range points {
		x, y := b.xy(p.X, p.Y)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>` + "\n")
}

// TrajectoryToSVG draws points as a single polyline.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	path(&sb, fit(points, width, height), points, strokeColor, "")
	sb.WriteString("</svg>")
	return sb.String()
}

// Footprint is where a foot came down.
type Footprint struct {
	Foot   int
	X, Y   float64
	Yaw    float64
	Radius float64
	Time   float64
}

// Footprints returns one footprint per landing: the first sample of each
// foot, then every swing to stance transition.
func Footprints(samples []sim.Sample) []Footprint {
	prints := make([]Footprint, 0)
	if len(samples) == 0 {
		return prints
	}

	swing := make([]bool, len(samples[0].Feet))
	for i := range samples {
		s := &samples[i]
		for j, f := range s.Feet {
			if j >= len(swing) {
				break
			}
			if i == 0 || (swing[j] && !f.InSwing) {
				prints = append(prints, Footprint{
					Foot:   j,
					X:      f.Position.X(),
					Y:      f.Position.Y(),
					Yaw:    f.Yaw,
					Radius: f.Radius,
					Time:   s.Time,
				})
			}
			swing[j] = f.InSwing
		}
	}
	return prints
}

// FootprintsToSVG draws the goal path, the body path and every footprint of
// a run, seen from above.
func FootprintsToSVG(samples []sim.Sample, width, height int) string {
	if len(samples) == 0 {
		return ""
	}

	prints := Footprints(samples)
	body := make([]analysis.Point, len(samples))
	goal := make([]analysis.Point, len(samples))
	all := make([]analysis.Point, 0, 2*len(samples)+len(prints))
	for i := range samples {
		s := &samples[i]
		body[i] = analysis.Point{X: s.Body.Translation.X(), Y: s.Body.Translation.Y()}
		goal[i] = analysis.Point{X: s.Goal.Translation.X(), Y: s.Goal.Translation.Y()}
	}
	all = append(all, body...)
	all = append(all, goal...)
	for _, p := range prints {
		all = append(all, analysis.Point{X: p.X, Y: p.Y})
	}

	b := fit(all, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	path(&sb, b, goal, "#555566", ` stroke-dasharray="4 4"`)
	path(&sb, b, body, "#ffffff", "")

	for _, p := range prints {
		x, y := b.xy(p.X, p.Y)
		r := math.Max(2, p.Radius*b.scale)
		color := FootColors[p.Foot%len(FootColors)]
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s"/>`+"\n", x, y, r, color))
		hx := x + 2*r*math.Cos(p.Yaw)
		hy := y - 2*r*math.Sin(p.Yaw)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", x, y, hx, hy, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
