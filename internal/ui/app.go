package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/credential"
	"github.com/five82/shelf/internal/detail"
	"github.com/five82/shelf/internal/inflight"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/route"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/toast"
)

// Page identifies the screen the router is showing.
type Page int

const (
	PageHome Page = iota
	PageLogin
	PageBook
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	API         catalog.API
	Credentials credential.Writer
	Guard       *inflight.Guard[string]
	Logger      *slog.Logger
	Config      *config.Config
	ThemeName   string
	PrefsPath   string
	// StartPath is the first route shown. Empty means "/".
	StartPath string
	// LastBook is the remembered book id from preferences.
	LastBook string
}

// Model is the root application state for Bubble Tea. It routes between the
// home, login and book pages and owns the overlays drawn above them.
type Model struct {
	// Configuration
	ctx       context.Context
	api       catalog.API
	creds     credential.Writer
	guard     *inflight.Guard[string]
	logger    *slog.Logger
	config    config.Config
	prefsPath string
	startPath string

	// UI state
	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	// Routing
	path     string
	page     Page
	gate     *session.Gate
	book     *detail.Controller
	lastBook string

	// Pages
	form  editForm
	login loginPage
	home  homePage

	// Overlays
	modal    Modal
	showHelp bool
	logs     logOverlay
	toasts   toast.Stack
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	guard := opts.Guard
	if guard == nil {
		guard = &inflight.Guard[string]{}
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Teal"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	startPath := opts.StartPath
	if startPath == "" {
		startPath = route.Root
	}
	logger := logging.Default(opts.Logger)

	return Model{
		ctx:       ctx,
		api:       opts.API,
		creds:     opts.Credentials,
		guard:     guard,
		logger:    logger.With("component", "ui"),
		config:    cfg,
		prefsPath: prefsPath,
		startPath: startPath,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		gate:      session.NewGate(opts.Credentials, logger),
		lastBook:  opts.LastBook,
		login:     newLoginPage(),
		home:      newHomePage(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return route.To(m.startPath)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizeInputs()
		return m, nil

	case route.NavigateMsg:
		return m.navigate(msg.Path)

	case toast.Notification:
		return m, m.toasts.Push(msg)

	case logsMsg:
		m.logs.load(msg)
		return m, nil
	}

	if m.toasts.Update(msg) {
		return m, nil
	}
	if m.book != nil {
		return m, m.book.Update(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.logs.open {
		return m.renderLogs()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// navigate switches pages. The navbar is part of every page, so the gate is
// re-mounted on each navigation.
func (m Model) navigate(path string) (tea.Model, tea.Cmd) {
	if m.book != nil {
		if m.book.Closed() && m.lastBook == m.book.ID() {
			m.lastBook = ""
			m.savePrefs()
		}
		m.book.Unmount()
		m.book = nil
	}
	m.modal = nil
	m.form = editForm{}
	m.gate.Mount()
	m.path = path

	switch path {
	case route.Login:
		m.page = PageLogin
		m.login.reset()
		return m, nil
	case route.Root, "":
		m.path = route.Root
		m.page = PageHome
		m.home.reset(m.gate.Authenticated())
		return m, nil
	}

	id, ok := route.BookID(path)
	if !ok {
		m.logger.Warn("unknown route", "path", path)
		m.path = route.Root
		m.page = PageHome
		m.home.reset(m.gate.Authenticated())
		return m, toast.Show(toast.Notification{
			Title:       "Page not found",
			Description: path,
			Severity:    toast.Warning,
			Duration:    m.config.NotifyFor,
		})
	}

	m.page = PageBook
	m.book = detail.New(detail.Options{
		ID:          id,
		Context:     m.ctx,
		API:         m.api,
		Credentials: m.creds,
		Guard:       m.guard,
		Logger:      m.logger,
		Numbers:     m.config.NumericFields,
		NotifyFor:   m.config.NotifyFor,
	})
	cmd := m.book.Mount()
	if m.book.State() == detail.StateUnauthorized {
		m.login.returnTo = path
	} else if m.lastBook != id {
		m.lastBook = id
		m.savePrefs()
	}
	return m, cmd
}

// handleKey processes keyboard input. Overlays and focused inputs take keys
// before the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.logs.open {
		return m.handleLogsKey(msg)
	}
	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch m.page {
	case PageLogin:
		if m.login.input.Focused() {
			return m.handleLoginInput(msg)
		}
	case PageHome:
		if m.home.input.Focused() {
			return m.handleHomeInput(msg)
		}
	case PageBook:
		if m.book != nil {
			switch m.book.State() {
			case detail.StateEditing:
				return m.handleFormKey(msg)
			case detail.StateSaving:
				return m, nil
			}
		}
	}

	return m.handleGlobalKey(msg)
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	authed := m.gate.Authenticated()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.logs.open = true
		return m, m.loadLogs()

	case key.Matches(msg, m.keys.Open) && authed:
		if m.page == PageHome {
			m.home.focus()
			return m, nil
		}
		return m, route.To(route.Root)

	case key.Matches(msg, m.keys.Login) && !authed:
		if m.page == PageLogin {
			m.login.focus()
			return m, nil
		}
		return m, route.To(route.Login)

	case key.Matches(msg, m.keys.Logout) && authed:
		return m.logout()
	}

	if m.page == PageBook && m.book != nil {
		return m.handleBookKey(msg)
	}
	return m, nil
}

// logout closes anything open over the page before clearing the session.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.book != nil && m.book.Confirming() {
		m.book.ConfirmDelete(false)
	}
	m.modal = nil
	m.showHelp = false
	m.logs.open = false
	return m, m.gate.Logout()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, LastBook: m.lastBook}); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

func (m *Model) resizeInputs() {
	width := m.inputWidth()
	m.login.input.Width = width
	m.home.input.Width = width
	for i := range m.form.inputs {
		m.form.inputs[i].Width = width
	}
}

func (m Model) inputWidth() int {
	width := m.width - FormLabelWidth - 8
	if width > MaxInputWidth {
		width = MaxInputWidth
	}
	if width < MinInputWidth {
		width = MinInputWidth
	}
	return width
}

// renderMain renders the navbar, the current page, notifications and the footer.
func (m Model) renderMain() string {
	navbar := m.renderNavbar()
	footer := m.renderFooter()
	toasts := m.renderToasts()

	used := lipgloss.Height(navbar) + lipgloss.Height(footer)
	if toasts != "" {
		used += lipgloss.Height(toasts)
	}
	contentHeight := m.height - used
	if contentHeight < 1 {
		contentHeight = 1
	}
	content := lipgloss.NewStyle().
		Padding(1, 2).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(m.renderContent())

	parts := []string{navbar, content}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderContent renders the page for the current route.
func (m Model) renderContent() string {
	switch m.page {
	case PageLogin:
		return m.renderLogin()
	case PageBook:
		return m.renderBook()
	default:
		return m.renderHome()
	}
}

func (m Model) renderFooter() string {
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
	line := m.help.ShortHelpView(m.footerBindings())
	return m.theme.Styles().Header.Width(m.width).Render(strings.TrimRight(line, " "))
}

// footerBindings returns the keys that do something right now.
func (m Model) footerBindings() []key.Binding {
	k := m.keys
	switch m.page {
	case PageLogin:
		if m.login.input.Focused() {
			return []key.Binding{k.Submit, k.Cancel}
		}
	case PageHome:
		if m.home.input.Focused() {
			return []key.Binding{k.Submit, k.Cancel}
		}
	case PageBook:
		if m.book == nil {
			break
		}
		switch m.book.State() {
		case detail.StateEditing:
			return []key.Binding{k.Save, k.Cancel, k.Next, k.Prev}
		case detail.StateSaving, detail.StateDeleting, detail.StateLoading:
			return []key.Binding{k.Quit}
		case detail.StateViewing:
			if _, ok := m.book.Record(); ok {
				return []key.Binding{k.Edit, k.Delete, k.Refresh, k.Help, k.Quit}
			}
			return []key.Binding{k.Refresh, k.Help, k.Quit}
		}
	}
	return k.ShortHelp()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
