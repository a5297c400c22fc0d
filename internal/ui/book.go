package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/detail"
)

// editForm mirrors the controller's edit buffer in text inputs. Every
// keystroke is written back through Controller.SetField.
type editForm struct {
	fields []detail.Field
	inputs []textinput.Model
	focus  int
}

func newEditForm(buf detail.EditBuffer, width int) editForm {
	f := editForm{fields: detail.FormFields}
	for i, field := range f.fields {
		in := newInput(field.Label(), width)
		in.SetValue(buf.Get(field))
		if i == 0 {
			in.Focus()
		}
		f.inputs = append(f.inputs, in)
	}
	return f
}

func (f *editForm) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *editForm) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f editForm) current() (detail.Field, string) {
	if len(f.inputs) == 0 {
		return "", ""
	}
	return f.fields[f.focus], f.inputs[f.focus].Value()
}

// newInput builds a single-line input with a static cursor.
func newInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 512
	in.Width = width
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func (m Model) handleBookKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Edit):
		if m.book.Edit() {
			m.form = newEditForm(m.book.Buffer(), m.inputWidth())
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.book.RequestDelete() {
			m.modal = newConfirmModal(m.book)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.book.Refresh()
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.book.Cancel()
		m.form = editForm{}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.book.Save()

	case key.Matches(msg, m.keys.Next):
		m.form.move(1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.form.move(-1)
		return m, nil
	}

	cmd := m.form.update(msg)
	field, value := m.form.current()
	if err := m.book.SetField(string(field), value); err != nil {
		m.logger.Debug("set field refused", "field", field, "error", err)
	}
	return m, cmd
}

// renderBook renders the detail page for the mounted controller.
func (m Model) renderBook() string {
	styles := m.theme.Styles()
	if m.book == nil {
		return styles.MutedText.Render("No book selected.")
	}

	state := m.book.State()
	title := styles.Text.Bold(true).Render("Book " + m.book.ID())
	chip := styles.StateStyle(state.String()).Render(titleCase(state.String()))
	header := title + "  " + chip
	if m.book.Fetching() && state != detail.StateLoading {
		header += "  " + styles.InfoText.Render("refreshing…")
	}

	var body string
	switch state {
	case detail.StateUnauthorized:
		body = styles.MutedText.Render("Log in to view this book.")
	case detail.StateLoading, detail.StateIdle:
		body = styles.InfoText.Render("Loading…")
	case detail.StateEditing, detail.StateSaving:
		body = m.renderForm(state == detail.StateSaving)
	default:
		book, ok := m.book.Record()
		if !ok {
			body = m.renderPlaceholder()
			break
		}
		body = m.renderCard(book)
		if state == detail.StateDeleting {
			body += "\n" + styles.DangerText.Render("Deleting…")
		}
	}
	return header + "\n\n" + body
}

func (m Model) renderCard(b catalog.Book) string {
	styles := m.theme.Styles()
	row := func(label, value string) string {
		return styles.MutedText.Render(padRight(label, FormLabelWidth)) + styles.Text.Render(value)
	}
	image := b.ImageURL()
	if image == "" {
		image = "none"
	}
	lines := []string{
		styles.AccentText.Bold(true).Render(b.Title),
		"",
		row("Author", b.Author),
		row("Publisher", b.Publisher),
		row("Year", fmt.Sprint(b.Year)),
		row("Pages", fmt.Sprint(b.Pages)),
		row("Image", truncateMiddle(image, m.inputWidth())),
	}
	return styles.Card.Render(strings.Join(lines, "\n"))
}

// renderPlaceholder is shown when no record could be loaded.
func (m Model) renderPlaceholder() string {
	styles := m.theme.Styles()
	lines := []string{styles.DangerText.Render("Could not load this book.")}
	if err := m.book.FetchErr(); err != nil {
		lines = append(lines, styles.MutedText.Render(catalog.UserMessage(err)))
	}
	retry := m.keys.Refresh.Help()
	lines = append(lines, "", styles.FaintText.Render("Press "+retry.Key+" to retry."))
	return styles.Card.Render(strings.Join(lines, "\n"))
}

func (m Model) renderForm(saving bool) string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.form.inputs)+2)
	for i, in := range m.form.inputs {
		label := padRight(m.form.fields[i].Label(), FormLabelWidth)
		if i == m.form.focus {
			lines = append(lines, styles.AccentText.Render(label)+in.View())
		} else {
			lines = append(lines, styles.MutedText.Render(label)+in.View())
		}
	}
	if saving {
		lines = append(lines, "", styles.InfoText.Render("Saving…"))
	}
	return styles.FocusCard.Render(strings.Join(lines, "\n"))
}
