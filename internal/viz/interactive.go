package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/locosim/internal/config"
	"github.com/san-kum/locosim/internal/sim"
)

// Launcher builds a simulator for a preset.
type Launcher func(cfg *config.Config) (*sim.Simulator, error)

type presetEntry struct {
	rig, name string
	cfg       *config.Config
}

func (e presetEntry) String() string { return e.rig + "/" + e.name }

func (e presetEntry) describe() string {
	return fmt.Sprintf("%d legs, %s gait, %s on %s", e.cfg.Rig.Legs, e.cfg.Rig.Gait, e.cfg.Path, e.cfg.Ground)
}

const (
	stateMenu = iota
	stateSim
)

// picker lists every preset and runs the chosen one in a live view.
type picker struct {
	state   int
	cursor  int
	entries []presetEntry
	launch  Launcher
	live    Model
	err     error
}

func listEntries() []presetEntry {
	entries := make([]presetEntry, 0)
	for _, rig := range config.ListRigs() {
		for _, name := range config.ListPresets(rig) {
			entries = append(entries, presetEntry{rig: rig, name: name, cfg: config.GetPreset(rig, name)})
		}
	}
	return entries
}

func newPicker(launch Launcher) picker {
	return picker{state: stateMenu, entries: listEntries(), launch: launch}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.live.session.Close()
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	if len(m.entries) == 0 {
		return m, nil
	}
	entry := m.entries[m.cursor]
	s, err := m.launch(entry.cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	live, err := NewModel(entry.String(), s)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.live = live
	m.state = stateSim
	return m, live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle().Render("LOCOSIM") + "\n    " + hintStyle().Render("procedural legged locomotion") + "\n    " + Separator(28) + "\n\n")
	for i, e := range m.entries {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				titleStyle().Render("▸"),
				valueStyle().Bold(true).Render(fmt.Sprintf("%-22s", e.String())),
				fg(CurrentTheme.Swing).Render(e.describe())))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n",
				fg(CurrentTheme.Muted).Render(fmt.Sprintf("%-22s", e.String())),
				fg(CurrentTheme.Border).Render(e.describe())))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + fg(CurrentTheme.Warning).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hintStyle().Render("j/k navigate  enter run  esc back  q quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu.
func RunInteractive(launch Launcher) error {
	_, err := tea.NewProgram(newPicker(launch), tea.WithAltScreen()).Run()
	return err
}

// RunLive shows one simulator in the live view.
func RunLive(name string, s *sim.Simulator) error {
	m, err := NewModel(name, s)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
