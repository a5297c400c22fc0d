// Package toast is the notification collaborator: fire-and-forget messages
// for the user, kept on screen for a fixed duration.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Severity classifies a notification for styling.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// DefaultDuration is used when a Notification has no duration.
const DefaultDuration = 3 * time.Second

const maxVisible = 3

// Notification is both the request and the message delivered to the UI.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
	Duration    time.Duration
}

// Show returns a command that emits n.
func Show(n Notification) tea.Cmd {
	return func() tea.Msg {
		return n
	}
}

type expireMsg struct {
	id int
}

type entry struct {
	id int
	Notification
}

// Stack holds the visible notifications, newest last.
type Stack struct {
	next  int
	items []entry
}

// Push adds n and returns the command that expires it.
func (s *Stack) Push(n Notification) tea.Cmd {
	if n.Duration <= 0 {
		n.Duration = DefaultDuration
	}
	s.next++
	id := s.next
	s.items = append(s.items, entry{id: id, Notification: n})
	if len(s.items) > maxVisible {
		s.items = s.items[len(s.items)-maxVisible:]
	}
	return tea.Tick(n.Duration, func(time.Time) tea.Msg {
		return expireMsg{id: id}
	})
}

// Update consumes expiry messages. It reports whether msg belonged to the stack.
func (s *Stack) Update(msg tea.Msg) bool {
	exp, ok := msg.(expireMsg)
	if !ok {
		return false
	}
	for i, e := range s.items {
		if e.id == exp.id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Items returns the visible notifications, oldest first.
func (s *Stack) Items() []Notification {
	out := make([]Notification, len(s.items))
	for i, e := range s.items {
		out[i] = e.Notification
	}
	return out
}

// Clear drops every visible notification.
func (s *Stack) Clear() {
	s.items = nil
}
