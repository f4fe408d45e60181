package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette for the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color // canvas dots
	Accent  lipgloss.Color // headers and selection
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Active  lipgloss.Color
	Rest    lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00ccff"),
		Accent:  lipgloss.Color("86"),
		Text:    lipgloss.Color("252"),
		Muted:   lipgloss.Color("245"),
		Active:  lipgloss.Color("#00ff88"),
		Rest:    lipgloss.Color("#888899"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#008800"),
		Active:  lipgloss.Color("#ccff00"),
		Rest:    lipgloss.Color("#006600"),
	}

	ThemeDusk = Theme{
		Name:    "dusk",
		Primary: lipgloss.Color("#ff88ff"),
		Accent:  lipgloss.Color("#ffaa00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Active:  lipgloss.Color("#ff4444"),
		Rest:    lipgloss.Color("#444466"),
	}
)

var themes = []Theme{ThemeOcean, ThemeRetro, ThemeDusk}

// CurrentTheme is read by every render.
var CurrentTheme = ThemeOcean

func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func SetTheme(name string) { CurrentTheme = GetTheme(name) }

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = themes[(i+1)%len(themes)]
			return
		}
	}
	CurrentTheme = themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
