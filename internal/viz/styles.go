package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	// canvasPadX and canvasPadY locate the canvas inside the view for mouse
	// mapping.
	canvasPadX, canvasPadY = 2, 1
)

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true).MarginBottom(1)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(12)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text)
}

func selectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
}

// ProgressBar renders percent in [0,1] as a fixed-width bar.
func ProgressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	filled := int(percent * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

// Table renders rows as aligned columns with a bold header, for CLI output.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i := range header {
			if i < len(r) && lipgloss.Width(r[i]) > widths[i] {
				widths[i] = lipgloss.Width(r[i])
			}
		}
	}
	head := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
	cell := func(s string, w int) string { return lipgloss.NewStyle().Width(w + 2).Render(s) }

	var b strings.Builder
	for i, h := range header {
		b.WriteString(head.Render(cell(h, widths[i])))
	}
	b.WriteString("\n")
	for _, r := range rows {
		for i := range header {
			v := ""
			if i < len(r) {
				v = r[i]
			}
			b.WriteString(cell(v, widths[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
