package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Planted lipgloss.Color
	Swing   lipgloss.Color
	Rest    lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeField = Theme{
		Name:    "field",
		Title:   lipgloss.Color("#7fd47f"),
		Text:    lipgloss.Color("#e8f0e0"),
		Muted:   lipgloss.Color("#6b7d62"),
		Border:  lipgloss.Color("#3d4a38"),
		Planted: lipgloss.Color("#b5e08c"),
		Swing:   lipgloss.Color("#ffd166"),
		Rest:    lipgloss.Color("#6ec6ff"),
		Warning: lipgloss.Color("#ff6b6b"),
	}

	ThemeBlueprint = Theme{
		Name:    "blueprint",
		Title:   lipgloss.Color("#9ad1ff"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Border:  lipgloss.Color("#23415a"),
		Planted: lipgloss.Color("#ffffff"),
		Swing:   lipgloss.Color("#ffd700"),
		Rest:    lipgloss.Color("#00a8cc"),
		Warning: lipgloss.Color("#ff4444"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Title:   lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#dddddd"),
		Muted:   lipgloss.Color("#888888"),
		Border:  lipgloss.Color("#444444"),
		Planted: lipgloss.Color("#ffffff"),
		Swing:   lipgloss.Color("#aaaaaa"),
		Rest:    lipgloss.Color("#cccccc"),
		Warning: lipgloss.Color("#ffffff"),
	}

	CurrentTheme = ThemeField

	Themes = []Theme{
		ThemeField,
		ThemeBlueprint,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
