package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func titleStyle() lipgloss.Style { return fg(CurrentTheme.Title).Bold(true) }
func labelStyle() lipgloss.Style { return fg(CurrentTheme.Muted).Width(12) }
func valueStyle() lipgloss.Style { return fg(CurrentTheme.Text) }
func hintStyle() lipgloss.Style  { return fg(CurrentTheme.Muted).Italic(true) }

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(CurrentTheme.Border).
		Padding(1, 2).
		Width(44)
}

func canvasStyle() lipgloss.Style {
	return fg(CurrentTheme.Text).Padding(1, 2)
}

// StatusLabel renders the run status word.
func StatusLabel(running, replay, atRest bool) string {
	switch {
	case replay:
		return fg(CurrentTheme.Swing).Bold(true).Render("REPLAY")
	case !running:
		return fg(CurrentTheme.Warning).Bold(true).Render("PAUSED")
	case atRest:
		return fg(CurrentTheme.Rest).Bold(true).Render("AT REST")
	}
	return fg(CurrentTheme.Planted).Bold(true).Render("WALKING")
}

// PhaseBar draws phase in [0,1) as a width-cell track with a marker, coloured
// by whether the foot is in swing.
func PhaseBar(phase float64, width int, swing bool) string {
	if width <= 0 {
		return ""
	}
	pos := int(phase * float64(width))
	pos = max(0, min(width-1, pos))

	bar := []rune(strings.Repeat("·", width))
	bar[pos] = '●'
	style := fg(CurrentTheme.Planted)
	if swing {
		style = fg(CurrentTheme.Swing)
	}
	return style.Render(string(bar))
}

// Sparkline renders values as block characters, sampling down to width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(1, len(values)/width)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(len(chars)-1, idx))])
	}
	return fg(CurrentTheme.Rest).Render(b.String())
}

func Separator(width int) string {
	return fg(CurrentTheme.Border).Render(strings.Repeat("─", max(width, 0)))
}
