package ui

import tea "github.com/charmbracelet/bubbletea"

// Modal is a dialog drawn over the page that takes every key until it
// reports done. The delete confirmation is the only one today.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (next Modal, cmd tea.Cmd, done bool)
	View(theme Theme, width, height int) string
}
