package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/locosim/internal/geom"
	"github.com/san-kum/locosim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 256
	maxFrameTime    = 0.25
)

type viewMode int

const (
	viewTop viewMode = iota
	viewOrbit
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a locomotor from real tick times and draws it.
type Model struct {
	name      string
	simulator *sim.Simulator
	session   *sim.Session
	current   sim.Sample
	err       error

	running   bool
	timeScale float64
	lastTick  time.Time
	fps       float64

	canvas  *Canvas
	camera  *Camera
	view    viewMode
	follow  bool
	scale   float64
	trail   []mgl64.Vec3
	planted []mgl64.Vec3

	speedHistory []float64
	bobHistory   []float64
	history      []sim.Sample
	playHead     int
	showHelp     bool
}

// NewModel starts a session on s. name is shown in the header.
func NewModel(name string, s *sim.Simulator) (Model, error) {
	m := Model{
		name:      name,
		simulator: s,
		running:   true,
		timeScale: 1,
		canvas:    NewCanvas(width, height),
		camera:    NewCamera(),
		follow:    true,
		scale:     2,
		playHead:  -1,
	}
	if err := m.restart(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *Model) restart() error {
	if m.session != nil {
		m.session.Close()
	}
	session, err := m.simulator.Start()
	if err != nil {
		return err
	}
	m.session = session
	m.current = session.Advance(1.0 / 60)
	m.lastTick = time.Time{}
	m.trail = make([]mgl64.Vec3, 0, trailCapacity)
	m.planted = make([]mgl64.Vec3, len(m.current.Feet))
	for i, f := range m.current.Feet {
		m.planted[i] = f.Planted
	}
	m.speedHistory = make([]float64, 0, historyCapacity)
	m.bobHistory = make([]float64, 0, historyCapacity)
	m.history = make([]sim.Sample, 0, historyCapacity)
	m.playHead = -1
	return nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.session.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.lastTick = time.Time{}
		case "r":
			if err := m.restart(); err != nil {
				m.err = err
			}
		case "+", "=":
			m.timeScale = math.Min(8, m.timeScale*1.25)
		case "-", "_":
			m.timeScale = math.Max(0.05, m.timeScale/1.25)
		case "v":
			m.view = (m.view + 1) % 2
		case "f":
			m.follow = !m.follow
		case "t":
			NextTheme()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "left", "h":
			m.camera.Orbit(-0.1, 0)
		case "right", "l":
			m.camera.Orbit(0.1, 0)
		case "up", "k":
			m.camera.Orbit(0, 0.05)
		case "down", "j":
			m.camera.Orbit(0, -0.05)
		case "z":
			m.zoom(1.2)
		case "Z":
			m.zoom(1 / 1.2)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		if m.running {
			if m.playHead == -1 {
				m.advance(now)
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.lastTick = now
		return m, tick()
	}
	return m, nil
}

func (m *Model) zoom(factor float64) {
	if m.view == viewOrbit {
		if factor > 1 {
			m.camera.ZoomIn()
		} else {
			m.camera.ZoomOut()
		}
		return
	}
	m.scale = math.Max(0.25, math.Min(16, m.scale/factor))
}

// advance feeds the locomotor the real time since the last tick.
func (m *Model) advance(now time.Time) {
	dt := 1.0 / 60
	if !m.lastTick.IsZero() {
		elapsed := now.Sub(m.lastTick).Seconds()
		if elapsed > 0 {
			m.fps = 0.9*m.fps + 0.1/elapsed
		}
		dt = math.Min(elapsed, maxFrameTime)
	}
	if dt <= 0 {
		return
	}
	m.record(m.session.Advance(dt * m.timeScale))
}

func (m *Model) record(s sim.Sample) {
	for i, f := range s.Feet {
		if i < len(m.planted) && geom.FlatDistance(f.Planted, m.planted[i]) > 1e-6 {
			m.trail = append(m.trail, f.Planted)
			m.planted[i] = f.Planted
		}
	}
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[len(m.trail)-trailCapacity:]
	}

	m.current = s
	m.speedHistory = appendCapped(m.speedHistory, s.Speed)
	m.bobHistory = appendCapped(m.bobHistory, s.Bob)
	m.history = append(m.history, s)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > historyCapacity {
		values = values[1:]
	}
	return values
}

func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// shown is the sample on screen: the replay position or the latest frame.
func (m *Model) shown() *sim.Sample {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return &m.history[m.playHead]
	}
	return &m.current
}

func (m Model) View() string {
	s := m.shown()
	m.draw(s)

	var b strings.Builder
	b.WriteString(titleStyle().Render(strings.ToUpper(m.name)) + "\n")
	b.WriteString(StatusLabel(m.running, m.playHead != -1, s.AtRest) + "\n\n")

	if m.err != nil {
		b.WriteString(fg(CurrentTheme.Warning).Render(m.err.Error()) + "\n\n")
	}

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed"))
		b.WriteString(valueStyle().Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs  x%.2f", s.Time, m.timeScale))
	row("FPS", fmt.Sprintf("%.0f", m.fps))
	row("Sub-steps", fmt.Sprintf("%d", s.SubSteps))
	row("Phase", fmt.Sprintf("%.3f", s.Phase))
	row("Speed", fmt.Sprintf("%.1f", s.Speed))
	row("Phase rate", fmt.Sprintf("%.2f /s", s.PhaseSpeed))
	row("Stride", fmt.Sprintf("%.1f", s.StrideLength))
	row("Bob", Sparkline(m.bobHistory, 20))

	b.WriteString("\nFEET\n")
	for i, f := range s.Feet {
		b.WriteString(fmt.Sprintf("%-3d %s %5.1f\n", i, PhaseBar(f.Phase, 20, f.InSwing), f.Height))
	}

	b.WriteString("\n" + Separator(24) + "\n")
	b.WriteString(hintStyle().Render("SP:Pause R:Reset Q:Quit\nV:View F:Follow T:Theme\n+/-:Time Z:Zoom ?:Help"))

	screen := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle().Render(m.canvas.String()), panelStyle().Render(b.String()))
	if m.showHelp {
		return helpText + "\n\n" + screen
	}
	return screen
}

const helpText = `
  Space    pause / resume
  R        restart the rig
  + / -    speed time up / down
  V        top-down or orbit view
  F        follow the body
  Z / z    zoom out / in
  ←→↑↓     orbit the camera
  [ / ]    step through recent frames
  T        cycle themes
  Q        quit`

func (m *Model) draw(s *sim.Sample) {
	m.canvas.Clear()
	switch m.view {
	case viewOrbit:
		m.drawOrbit(s)
	default:
		m.drawTop(s)
	}
}

func (m *Model) drawTop(s *sim.Sample) {
	w, h := m.canvas.PixelSize()
	vp := Viewport{Scale: m.scale, W: w, H: h}
	if m.follow {
		vp.CenterX, vp.CenterY = s.Body.Translation.X(), s.Body.Translation.Y()
	}

	for _, p := range m.trail {
		x, y := vp.ToScreen(p.X(), p.Y())
		m.canvas.Set(x, y)
	}

	gx, gy := vp.ToScreen(s.Goal.Translation.X(), s.Goal.Translation.Y())
	m.canvas.DrawCross(gx, gy, 2)

	bx, by := vp.ToScreen(s.Body.Translation.X(), s.Body.Translation.Y())
	m.canvas.DrawCircle(bx, by, 2, true)
	nose := s.Body.Translation.Add(s.Body.Forward().Mul(25))
	nx, ny := vp.ToScreen(nose.X(), nose.Y())
	m.canvas.DrawLine(bx, by, nx, ny)

	for _, f := range s.Feet {
		fx, fy := vp.ToScreen(f.Position.X(), f.Position.Y())
		m.canvas.DrawLine(bx, by, fx, fy)
		m.canvas.DrawCircle(fx, fy, vp.Pixels(f.Radius), !f.InSwing)
	}
}

func (m *Model) drawOrbit(s *sim.Sample) {
	if m.follow {
		m.camera.Target = geom.Flatten(s.Body.Translation)
	}

	center := m.camera.Target
	const grid, cell = 6, 40.0
	for i := -grid; i <= grid; i++ {
		o := float64(i) * cell
		m.camera.Line(m.canvas,
			center.Add(mgl64.Vec3{o, -grid * cell, 0}),
			center.Add(mgl64.Vec3{o, grid * cell, 0}))
		m.camera.Line(m.canvas,
			center.Add(mgl64.Vec3{-grid * cell, o, 0}),
			center.Add(mgl64.Vec3{grid * cell, o, 0}))
	}

	pelvis := s.Pelvis.Translation
	m.camera.Line(m.canvas, pelvis, pelvis.Add(s.Pelvis.Forward().Mul(20)))
	for _, f := range s.Feet {
		m.camera.Line(m.canvas, pelvis, f.Position)
		m.camera.Line(m.canvas, f.Position, geom.Flatten(f.Position))
	}
}
