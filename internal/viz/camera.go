package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/locosim/internal/geom"
)

// Camera orbits a target point for the perspective view.
type Camera struct {
	Target   mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64
	Zoom     float64
}

func NewCamera() *Camera {
	return &Camera{Yaw: -2.2, Pitch: 0.45, Distance: 400, Zoom: 1}
}

func (c *Camera) Orbit(yaw, pitch float64) {
	c.Yaw += yaw
	c.Pitch = math.Max(0.05, math.Min(1.5, c.Pitch+pitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) Eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	offset := mgl64.Vec3{cp * math.Cos(c.Yaw), cp * math.Sin(c.Yaw), math.Sin(c.Pitch)}
	return c.Target.Add(offset.Mul(c.Distance))
}

// Project maps a world point to sub-pixel coordinates on a sw by sh canvas.
// ok is false for points behind the camera.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (x, y int, depth float64, ok bool) {
	view := mgl64.LookAtV(c.Eye(), c.Target, geom.Up)
	v := view.Mul4x1(p.Vec4(1))
	depth = -v.Z()
	if depth < 1 {
		return 0, 0, depth, false
	}

	focal := float64(sh) * c.Zoom
	x = int(math.Round(float64(sw)/2 + focal*v.X()/depth))
	y = int(math.Round(float64(sh)/2 - focal*v.Y()/depth))
	return x, y, depth, true
}

// Line projects and draws a world-space segment.
func (c *Camera) Line(cv *Canvas, a, b mgl64.Vec3) {
	w, h := cv.PixelSize()
	x0, y0, _, ok0 := c.Project(a, w, h)
	x1, y1, _, ok1 := c.Project(b, w, h)
	if ok0 && ok1 {
		cv.DrawLine(x0, y0, x1, y1)
	}
}
