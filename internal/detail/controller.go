package detail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/credential"
	"github.com/five82/shelf/internal/inflight"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/route"
	"github.com/five82/shelf/internal/toast"
)

// State is the controller's position in the record lifecycle.
type State int

const (
	StateIdle State = iota
	StateUnauthorized
	StateLoading
	StateViewing
	StateEditing
	StateSaving
	StateDeleting
)

func (s State) String() string {
	switch s {
	case StateUnauthorized:
		return "unauthorized"
	case StateLoading:
		return "loading"
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateDeleting:
		return "deleting"
	default:
		return "idle"
	}
}

// Options configure a Controller.
type Options struct {
	ID          string
	Context     context.Context
	API         catalog.API
	Credentials credential.Provider
	// Guard is shared by every controller in a process so responses for a
	// book id are sequenced across remounts. Nil gets a private guard.
	Guard     *inflight.Guard[string]
	Logger    *slog.Logger
	Numbers   config.NumericPolicy
	NotifyFor time.Duration
}

// Controller owns one book's view/edit/delete lifecycle. All methods must be
// called from the Bubble Tea update loop; requests run as commands and come
// back through Update.
type Controller struct {
	id        string
	ctx       context.Context
	api       catalog.API
	creds     credential.Provider
	guard     *inflight.Guard[string]
	logger    *slog.Logger
	numbers   config.NumericPolicy
	notifyFor time.Duration

	state      State
	record     *catalog.Book
	buffer     EditBuffer
	confirming bool
	fetching   bool
	fetchErr   error
	ticket     inflight.Ticket
	closed     bool
}

// New builds an unmounted controller for opts.ID.
func New(opts Options) *Controller {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	guard := opts.Guard
	if guard == nil {
		guard = &inflight.Guard[string]{}
	}
	numbers := opts.Numbers
	if numbers == "" {
		numbers = config.NumericReject
	}
	notifyFor := opts.NotifyFor
	if notifyFor <= 0 {
		notifyFor = toast.DefaultDuration
	}
	return &Controller{
		id:        opts.ID,
		ctx:       ctx,
		api:       opts.API,
		creds:     opts.Credentials,
		guard:     guard,
		logger:    logging.Default(opts.Logger).With("component", "detail", "book_id", opts.ID),
		numbers:   numbers,
		notifyFor: notifyFor,
	}
}

// Messages carrying request results back into Update.

type fetchedMsg struct {
	id     string
	ticket inflight.Ticket
	book   catalog.Book
	err    error
}

type updatedMsg struct {
	id     string
	ticket inflight.Ticket
	err    error
}

type deletedMsg struct {
	id     string
	ticket inflight.Ticket
	err    error
}

// Mount gates on the credential and starts the initial fetch.
func (c *Controller) Mount() tea.Cmd {
	if c.creds == nil || c.creds.Get() == "" {
		c.state = StateUnauthorized
		c.logger.Info("no credential, redirecting to login")
		return tea.Batch(
			c.notify(toast.Info, "Please log in", "You need to log in before opening a book"),
			route.To(route.Login),
		)
	}
	c.state = StateLoading
	return c.fetch()
}

// Unmount detaches the controller. Responses still in flight are ignored.
func (c *Controller) Unmount() {
	c.closed = true
	c.confirming = false
}

// Update applies request results. Messages for other books, superseded
// requests, or an unmounted controller are dropped.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case fetchedMsg:
		if !c.accept(msg.id, msg.ticket) {
			return nil
		}
		return c.handleFetched(msg)
	case updatedMsg:
		if !c.accept(msg.id, msg.ticket) {
			return nil
		}
		return c.handleUpdated(msg)
	case deletedMsg:
		if !c.accept(msg.id, msg.ticket) {
			return nil
		}
		return c.handleDeleted(msg)
	}
	return nil
}

func (c *Controller) accept(id string, t inflight.Ticket) bool {
	if id != c.id {
		return false
	}
	if c.closed {
		c.logger.Debug("dropping response after unmount")
		return false
	}
	if t != c.ticket || !c.guard.Current(id, t) {
		c.logger.Debug("dropping superseded response", "ticket", t)
		return false
	}
	return true
}

// Refresh re-fetches the record on user request.
func (c *Controller) Refresh() tea.Cmd {
	if c.closed || c.state != StateViewing || c.fetching || c.confirming {
		return nil
	}
	return c.fetch()
}

// Edit enters edit mode. It reports whether the transition happened.
func (c *Controller) Edit() bool {
	if c.closed || c.state != StateViewing || c.record == nil || c.fetching || c.confirming {
		return false
	}
	c.state = StateEditing
	return true
}

// SetField updates exactly one buffer field. Any text is accepted.
func (c *Controller) SetField(name, value string) error {
	if c.state != StateEditing {
		return ErrNotEditing
	}
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	c.buffer = c.buffer.with(f, value)
	return nil
}

// Cancel leaves edit mode and restores the buffer from the record.
func (c *Controller) Cancel() {
	if c.state != StateEditing {
		return
	}
	c.buffer = BufferFrom(*c.record)
	c.state = StateViewing
}

// Save sends the buffer as an update.
func (c *Controller) Save() tea.Cmd {
	if c.closed || c.state != StateEditing {
		return nil
	}
	payload, err := c.buffer.Payload(c.numbers)
	if err != nil {
		c.logger.Warn("rejected edit", "error", err)
		return c.notify(toast.Warning, "Invalid number", err.Error())
	}

	c.state = StateSaving
	ticket := c.issue()
	ctx, api, creds, id := c.ctx, c.api, c.creds, c.id
	return func() tea.Msg {
		err := api.UpdateBook(ctx, creds.Get(), id, payload)
		return updatedMsg{id: id, ticket: ticket, err: err}
	}
}

// RequestDelete opens the confirmation step. No request is made.
func (c *Controller) RequestDelete() bool {
	if c.closed || c.state != StateViewing || c.record == nil || c.fetching {
		return false
	}
	c.confirming = true
	return true
}

// ConfirmDelete answers the confirmation step. Declining changes nothing.
func (c *Controller) ConfirmDelete(yes bool) tea.Cmd {
	if !c.confirming {
		return nil
	}
	c.confirming = false
	if !yes || c.closed || c.state != StateViewing {
		return nil
	}

	c.state = StateDeleting
	ticket := c.issue()
	ctx, api, creds, id := c.ctx, c.api, c.creds, c.id
	return func() tea.Msg {
		err := api.DeleteBook(ctx, creds.Get(), id)
		return deletedMsg{id: id, ticket: ticket, err: err}
	}
}

func (c *Controller) issue() inflight.Ticket {
	c.ticket = c.guard.Begin(c.id)
	return c.ticket
}

func (c *Controller) fetch() tea.Cmd {
	c.fetching = true
	ticket := c.issue()
	ctx, api, creds, id := c.ctx, c.api, c.creds, c.id
	return func() tea.Msg {
		book, err := api.FetchBook(ctx, creds.Get(), id)
		return fetchedMsg{id: id, ticket: ticket, book: book, err: err}
	}
}

func (c *Controller) handleFetched(msg fetchedMsg) tea.Cmd {
	c.fetching = false
	if msg.err != nil {
		c.fetchErr = msg.err
		c.logger.Error("fetch book failed", "error", msg.err)
		if c.state == StateLoading {
			c.state = StateViewing
		}
		return nil
	}
	book := msg.book
	c.fetchErr = nil
	c.record = &book
	c.buffer = BufferFrom(book)
	c.state = StateViewing
	return nil
}

func (c *Controller) handleUpdated(msg updatedMsg) tea.Cmd {
	if msg.err != nil {
		c.logger.Error("update book failed", "error", msg.err)
		c.state = StateEditing
		return c.failure("Update failed", msg.err)
	}
	c.logger.Info("book updated")
	c.state = StateViewing
	return tea.Batch(
		c.notify(toast.Success, "Success", "Book updated successfully"),
		c.fetch(),
	)
}

func (c *Controller) handleDeleted(msg deletedMsg) tea.Cmd {
	if msg.err != nil {
		c.logger.Error("delete book failed", "error", msg.err)
		c.state = StateViewing
		return c.failure("Delete failed", msg.err)
	}
	c.logger.Info("book deleted")
	c.closed = true
	return tea.Batch(
		c.notify(toast.Success, "Success", "Book deleted successfully"),
		route.To(route.Root),
	)
}

func (c *Controller) failure(title string, err error) tea.Cmd {
	desc := catalog.UserMessage(err)
	if errors.Is(err, catalog.ErrUnauthorized) {
		desc = "Your session is no longer valid. Log in again."
	}
	return c.notify(toast.Error, title, desc)
}

func (c *Controller) notify(sev toast.Severity, title, desc string) tea.Cmd {
	return toast.Show(toast.Notification{
		Title:       title,
		Description: desc,
		Severity:    sev,
		Duration:    c.notifyFor,
	})
}

// ID returns the book id.
func (c *Controller) ID() string { return c.id }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Record returns the last fetched book.
func (c *Controller) Record() (catalog.Book, bool) {
	if c.record == nil {
		return catalog.Book{}, false
	}
	return *c.record, true
}

// Buffer returns a copy of the edit buffer.
func (c *Controller) Buffer() EditBuffer { return c.buffer }

// Confirming reports whether the delete confirmation is open.
func (c *Controller) Confirming() bool { return c.confirming }

// Fetching reports whether a fetch is in flight.
func (c *Controller) Fetching() bool { return c.fetching }

// FetchErr returns the error from the most recent failed fetch, cleared on success.
func (c *Controller) FetchErr() error { return c.fetchErr }

// Closed reports whether the controller was unmounted or its book deleted.
func (c *Controller) Closed() bool { return c.closed }
