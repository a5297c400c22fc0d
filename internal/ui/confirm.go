package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/detail"
)

// confirmModal asks before deleting the mounted book.
type confirmModal struct {
	book  *detail.Controller
	title string
}

func newConfirmModal(book *detail.Controller) confirmModal {
	title := "this book"
	if rec, ok := book.Record(); ok && strings.TrimSpace(rec.Title) != "" {
		title = "“" + truncate(rec.Title, ModalWidth-16) + "”"
	}
	return confirmModal{book: book, title: title}
}

// Update answers the controller's confirmation step. Other keys are ignored.
func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Confirm):
		return c, c.book.ConfirmDelete(true), true
	case key.Matches(km, keys.Decline):
		return c, c.book.ConfirmDelete(false), true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Warning)).Bold(true)

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete book"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Delete " + c.title + "?"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("This cannot be undone."))
	b.WriteString("\n\n")
	b.WriteString(keyStyle.Render("y") + styles.Text.Render(" Delete   "))
	b.WriteString(keyStyle.Render("n") + styles.Text.Render(" Keep"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(ModalWidth).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
