package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Entry is one launchable item in the picker.
type Entry struct {
	Name  string
	About string
	Build Builder
}

const (
	stateMenu = iota
	stateSim
)

// Picker lists entries and hands the chosen one to a live Model.
type Picker struct {
	state     int
	cursor    int
	entries   []Entry
	live      Model
	lastError error
}

func NewPicker(entries []Entry) Picker {
	return Picker{state: stateMenu, entries: entries}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			p.state = stateMenu
			return p, nil
		}
		live, cmd := p.live.Update(msg)
		p.live = live.(Model)
		return p, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.entries) == 0 {
			return p, nil
		}
		e := p.entries[p.cursor]
		live, err := NewModel(e.Name, e.Build)
		if err != nil {
			p.lastError = err
			return p, nil
		}
		p.live, p.state, p.lastError = live, stateSim, nil
		return p, p.live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.state == stateSim {
		return p.live.View()
	}

	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + h.Render("MOTIONSIM") + "\n    " + sub.Render("ui motion engine") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, e := range p.entries {
		about := e.About
		if len(about) > 48 {
			about = about[:45] + "..."
		}
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", h.Render("▸"), selectedStyle().Render(fmt.Sprintf("%-20s", e.Name)), valueStyle().Render(about)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-20s", e.Name)), sub.Render(about)))
		}
	}
	if p.lastError != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(p.lastError.Error()) + "\n")
	}
	b.WriteString("\n    " + sub.Render("j/k navigate  enter select  esc back  q quit") + "\n")
	return b.String()
}

func RunPicker(entries []Entry) error {
	_, err := tea.NewProgram(NewPicker(entries), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
