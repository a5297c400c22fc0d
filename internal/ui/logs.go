package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// logOverlay is the diagnostics view over shelf's own log file.
type logOverlay struct {
	open   bool
	lines  []logLine
	err    error
	offset int // lines scrolled up from the newest
}

type logLine struct {
	text  string
	level string
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

func (m Model) loadLogs() tea.Cmd {
	path := m.config.LogFile
	return func() tea.Msg {
		entries, err := logtail.Tail(path, LogTailLimit)
		return logsMsg{entries: entries, err: err}
	}
}

func (l *logOverlay) load(msg logsMsg) {
	l.err = msg.err
	l.offset = 0
	l.lines = l.lines[:0]
	for _, e := range msg.entries {
		for _, text := range strings.Split(e.Format(), "\n") {
			l.lines = append(l.lines, logLine{text: text, level: e.Level})
		}
	}
}

func (l *logOverlay) scroll(delta, visible int) {
	maxOffset := len(l.lines) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.offset += delta
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Quit):
		m.logs.open = false
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.logs.scroll(1, m.logRows())
	case key.Matches(msg, m.keys.ScrollDown):
		m.logs.scroll(-1, m.logRows())
	case msg.String() == "ctrl+u":
		m.logs.scroll(m.logRows()/2, m.logRows())
	case msg.String() == "ctrl+d":
		m.logs.scroll(-m.logRows()/2, m.logRows())
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadLogs()
	}
	return m, nil
}

func (m Model) logRows() int {
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.Text.Bold(true).Render("Diagnostics") + "  " +
		styles.FaintText.Render(truncateMiddle(m.config.LogFile, maxInt(m.width-20, 10)))

	var body []string
	switch {
	case m.logs.err != nil:
		body = []string{styles.DangerText.Render("Could not read log: " + m.logs.err.Error())}
	case len(m.logs.lines) == 0:
		body = []string{styles.MutedText.Render("No log entries yet.")}
	default:
		rows := m.logRows()
		end := len(m.logs.lines) - m.logs.offset
		start := end - rows
		if start < 0 {
			start = 0
		}
		for _, line := range m.logs.lines[start:end] {
			body = append(body, m.levelStyle(line.level).Render(truncate(line.text, m.width-2)))
		}
	}

	footer := styles.FaintText.Render("j/k scroll  r reload  esc close")
	content := lipgloss.NewStyle().Height(m.logRows()).Render(strings.Join(body, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, " "+title, content, " "+footer)
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch strings.ToUpper(level) {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	case "INFO":
		return styles.Text
	default:
		return styles.MutedText
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
