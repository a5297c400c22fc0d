package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/route"
)

// homePage opens a book by id.
type homePage struct {
	input textinput.Model
}

func newHomePage() homePage {
	return homePage{input: newInput("book id", MinInputWidth)}
}

func (p *homePage) reset(authenticated bool) {
	p.input.SetValue("")
	if authenticated {
		p.focus()
	} else {
		p.input.Blur()
	}
}

func (p *homePage) focus() {
	p.input.Focus()
}

func (m Model) handleHomeInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.home.input.Blur()
		return m, nil
	case "enter":
		id := strings.TrimSpace(m.home.input.Value())
		if id == "" {
			return m, nil
		}
		return m, route.To(route.Book(id))
	}

	var cmd tea.Cmd
	m.home.input, cmd = m.home.input.Update(msg)
	return m, cmd
}

func (m Model) renderHome() string {
	styles := m.theme.Styles()
	if !m.gate.Authenticated() {
		return strings.Join([]string{
			styles.Text.Bold(true).Render("Welcome to shelf"),
			styles.MutedText.Render("Press " + m.keys.Login.Help().Key + " to log in before opening a book."),
		}, "\n")
	}

	lines := []string{styles.Text.Bold(true).Render("Open a book"), ""}
	card := styles.Card
	if m.home.input.Focused() {
		card = styles.FocusCard
	}
	lines = append(lines, card.Render(styles.MutedText.Render(padRight("Book id", FormLabelWidth))+m.home.input.View()))
	if m.lastBook != "" {
		lines = append(lines, styles.FaintText.Render("Last opened: "+m.lastBook))
	}
	if !m.home.input.Focused() {
		lines = append(lines, styles.FaintText.Render("Press "+m.keys.Open.Help().Key+" to enter an id."))
	}
	return strings.Join(lines, "\n")
}
