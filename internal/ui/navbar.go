package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderNavbar renders the top bar. Open and logout are offered only while
// authenticated; login only while not.
func (m Model) renderNavbar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	affordance := func(b key.Binding) string {
		h := b.Help()
		return bg.Render(h.Key, styles.WarningText.Bold(true)) + bg.Spaces(1) + bg.Render(h.Desc, styles.Text)
	}

	left := []string{bg.Render("shelf", styles.Logo)}
	var session string
	if m.gate.Authenticated() {
		left = append(left, affordance(m.keys.Open), affordance(m.keys.Logout))
		if subject := m.gate.Subject(); subject != "" {
			session = bg.Render("signed in as "+truncate(subject, 24), styles.MutedText)
		} else {
			session = bg.Render("signed in", styles.MutedText)
		}
		if m.gate.Expired(time.Now()) {
			session += bg.Spaces(1) + bg.Render("(token expired)", styles.WarningText)
		}
	} else {
		left = append(left, affordance(m.keys.Login))
		session = bg.Render("not signed in", styles.FaintText)
	}

	leftStr := bg.Join(left, 3)
	rightStr := bg.Join([]string{session, bg.Render(truncate(m.path, 32), styles.FaintText)}, 2)

	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 2 {
		gap = 2
	}
	return styles.Header.Width(m.width).Render(leftStr + bg.Spaces(gap) + rightStr)
}
