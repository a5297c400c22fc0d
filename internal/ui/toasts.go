package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderToasts renders visible notifications, newest last.
func (m Model) renderToasts() string {
	items := m.toasts.Items()
	if len(items) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	lines := make([]string, 0, len(items))
	for _, n := range items {
		color := lipgloss.Color(m.theme.SeverityColor(n.Severity))
		bar := lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(color).
			PaddingLeft(1)
		text := lipgloss.NewStyle().Foreground(color).Bold(true).Render(n.Title)
		if desc := strings.TrimSpace(n.Description); desc != "" {
			text += styles.MutedText.Render("  " + truncate(desc, m.width-len(n.Title)-8))
		}
		lines = append(lines, bar.Render(text))
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(lines, "\n"))
}
