package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/route"
	"github.com/five82/shelf/internal/toast"
)

// loginPage takes an API token and stores it.
type loginPage struct {
	input textinput.Model
	// returnTo is the page that redirected here, opened after a successful login.
	returnTo string
}

func newLoginPage() loginPage {
	in := newInput("paste API token", MinInputWidth)
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return loginPage{input: in}
}

func (p *loginPage) reset() {
	p.input.SetValue("")
	p.focus()
}

func (p *loginPage) focus() {
	p.input.Focus()
}

func (m Model) handleLoginInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.login.input.Blur()
		return m, nil

	case "enter":
		token := strings.TrimSpace(m.login.input.Value())
		if token == "" {
			return m, m.notify(toast.Warning, "Token required", "Paste an API token to log in")
		}
		if m.creds == nil {
			return m, m.notify(toast.Error, "Login failed", "No credential store configured")
		}
		if err := m.creds.Set(token); err != nil {
			m.logger.Error("store token failed", "error", err)
			return m, m.notify(toast.Error, "Login failed", err.Error())
		}
		m.logger.Info("token stored")
		target := m.login.returnTo
		if target == "" {
			target = route.Root
		}
		m.login.returnTo = ""
		m.login.input.SetValue("")
		return m, tea.Batch(
			m.notify(toast.Success, "Logged in", ""),
			route.To(target),
		)
	}

	var cmd tea.Cmd
	m.login.input, cmd = m.login.input.Update(msg)
	return m, cmd
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	lines := []string{styles.Text.Bold(true).Render("Log in")}
	if m.gate.Authenticated() {
		lines = append(lines, styles.MutedText.Render("A token is already stored. Submitting replaces it."))
	} else {
		lines = append(lines, styles.MutedText.Render("Paste the API token issued by the catalog server."))
	}
	lines = append(lines, "")

	card := styles.Card
	if m.login.input.Focused() {
		card = styles.FocusCard
	}
	lines = append(lines, card.Render(styles.MutedText.Render(padRight("Token", FormLabelWidth))+m.login.input.View()))
	if !m.login.input.Focused() {
		lines = append(lines, styles.FaintText.Render("Press "+m.keys.Login.Help().Key+" to edit the token."))
	}
	return strings.Join(lines, "\n")
}

func (m Model) notify(sev toast.Severity, title, desc string) tea.Cmd {
	return toast.Show(toast.Notification{
		Title:       title,
		Description: desc,
		Severity:    sev,
		Duration:    m.config.NotifyFor,
	})
}
