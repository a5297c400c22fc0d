// Package route is the navigation collaborator. Components ask to navigate by
// returning the command from To; the UI's router is the only receiver.
package route

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	Login = "/login"
	Root  = "/"

	bookPrefix = "/books/"
)

// NavigateMsg asks the router to switch to Path. Nothing is returned to the sender.
type NavigateMsg struct {
	Path string
}

// To returns a command that emits a NavigateMsg for path.
func To(path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path}
	}
}

// Book returns the detail path for a book id.
func Book(id string) string {
	return bookPrefix + url.PathEscape(id)
}

// BookID extracts the id from a detail path. ok is false for other paths.
func BookID(path string) (string, bool) {
	rest, found := strings.CutPrefix(path, bookPrefix)
	if !found || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	id, err := url.PathUnescape(rest)
	if err != nil || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}
