package analysis

import (
	"github.com/san-kum/locosim/internal/sim"
)

type Point struct{ X, Y float64 }

// Portrait is a 2D plot of one series against another.
type Portrait struct {
	Points []Point
}

// NewPortrait pairs xs and ys; the longer series is truncated.
func NewPortrait(xs, ys []float64) *Portrait {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	p := &Portrait{Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return p
}

// SampleSeries pulls one value per sample.
func SampleSeries(samples []sim.Sample, value func(*sim.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i := range samples {
		out[i] = value(&samples[i])
	}
	return out
}

// PortraitToASCII plots a portrait on a width by height character grid,
// drawing the axes when they are in view.
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := newCanvas(width, height)

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	return canvasString(canvas)
}

// StrideSection samples value once per gait cycle, when the cycle phase
// wraps while the rig is moving, and returns the return map of consecutive
// cycles: each point is (cycle n, cycle n+1). A steady gait collapses to a
// single point on the diagonal.
func StrideSection(samples []sim.Sample, value func(*sim.Sample) float64) *Portrait {
	section := &Portrait{Points: make([]Point, 0)}
	if len(samples) == 0 {
		return section
	}

	cycles := make([]float64, 0)
	prev := samples[0].Phase
	for i := 1; i < len(samples); i++ {
		s := &samples[i]
		if !s.AtRest && prev > 0.5 && s.Phase < 0.5 {
			cycles = append(cycles, value(s))
		}
		prev = s.Phase
	}

	for i := 1; i < len(cycles); i++ {
		section.Points = append(section.Points, Point{X: cycles[i-1], Y: cycles[i]})
	}
	return section
}

// StrideSectionToASCII plots a stride section.
func StrideSectionToASCII(section *Portrait, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No complete cycles"
	}
	return PortraitToASCII(section, width, height)
}
