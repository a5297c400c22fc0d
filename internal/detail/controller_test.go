package detail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/credential"
	"github.com/five82/shelf/internal/inflight"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/route"
	"github.com/five82/shelf/internal/toast"
)

const testToken = "tok"

type apiCall struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// fakeAPI is an in-memory books endpoint that enforces the bearer token.
type fakeAPI struct {
	mu           sync.Mutex
	book         map[string]any
	fetchStatus  int
	updateStatus int
	deleteStatus int
	calls        []apiCall
}

func newFakeAPI(t *testing.T) (*fakeAPI, *catalog.Client) {
	t.Helper()
	f := &fakeAPI{book: map[string]any{
		"title": "Dune", "author": "Herbert", "publisher": "Chilton",
		"year": 1965, "pages": 412, "image": "u1",
	}}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(catalog.Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return f, client
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := apiCall{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&call.Body)
	}
	f.calls = append(f.calls, call)

	fail := func(status int, msg string) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
	}
	if call.Auth != "Bearer "+testToken {
		fail(http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if f.fetchStatus != 0 {
			fail(f.fetchStatus, "fetch broke")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"book": f.book})
	case http.MethodPut:
		if f.updateStatus != 0 {
			fail(f.updateStatus, "Validation failed")
			return
		}
		for k, v := range call.Body {
			f.book[k] = v
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
	case http.MethodDelete:
		if f.deleteStatus != 0 {
			fail(f.deleteStatus, "Cannot delete")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}
}

func (f *fakeAPI) snapshot() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) methods() []string {
	var out []string
	for _, c := range f.snapshot() {
		out = append(out, c.Method)
	}
	return out
}

func (f *fakeAPI) set(fn func(*fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// run executes cmd, expanding batches, and returns the resulting messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

type effects struct {
	toasts []toast.Notification
	navs   []string
}

func (fx effects) titles() []string {
	var out []string
	for _, n := range fx.toasts {
		out = append(out, n.Title)
	}
	return out
}

// pump runs cmd to completion, feeding request results back into c and
// collecting the navigation and notification messages it emits.
func pump(c *Controller, cmd tea.Cmd) effects {
	var fx effects
	queue := run(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch m := msg.(type) {
		case toast.Notification:
			fx.toasts = append(fx.toasts, m)
		case route.NavigateMsg:
			fx.navs = append(fx.navs, m.Path)
		default:
			queue = append(queue, run(c.Update(msg))...)
		}
	}
	return fx
}

type harness struct {
	api   *fakeAPI
	creds *credential.MemoryStore
	ctrl  *Controller
	logs  *bytes.Buffer
}

func newHarness(t *testing.T, token string, numbers config.NumericPolicy) *harness {
	t.Helper()
	api, client := newFakeAPI(t)
	creds := credential.NewMemoryStore(token)
	var logs bytes.Buffer
	ctrl := New(Options{
		ID:          "42",
		Context:     context.Background(),
		API:         client,
		Credentials: creds,
		Logger:      logging.New(&logs, "debug"),
		Numbers:     numbers,
	})
	return &harness{api: api, creds: creds, ctrl: ctrl, logs: &logs}
}

func (h *harness) mount(t *testing.T) effects {
	t.Helper()
	return pump(h.ctrl, h.ctrl.Mount())
}

func TestMount_NoTokenRedirectsWithoutFetch(t *testing.T) {
	h := newHarness(t, "", "")

	fx := h.mount(t)

	if calls := h.api.snapshot(); len(calls) != 0 {
		t.Fatalf("API calls = %v, want none", calls)
	}
	if diff := cmp.Diff([]string{route.Login}, fx.navs); diff != "" {
		t.Fatalf("navigations mismatch (-want +got):\n%s", diff)
	}
	if len(fx.toasts) != 1 || fx.toasts[0].Title != "Please log in" || fx.toasts[0].Severity != toast.Info {
		t.Fatalf("toasts = %#v, want one info 'Please log in'", fx.toasts)
	}
	if h.ctrl.State() != StateUnauthorized {
		t.Fatalf("state = %v, want unauthorized", h.ctrl.State())
	}
	if _, ok := h.ctrl.Record(); ok {
		t.Fatalf("record present, want absent")
	}
}

func TestMount_FetchPopulatesRecordAndBuffer(t *testing.T) {
	h := newHarness(t, testToken, "")

	fx := h.mount(t)

	if len(fx.toasts) != 0 || len(fx.navs) != 0 {
		t.Fatalf("unexpected effects %+v", fx)
	}
	calls := h.api.snapshot()
	if len(calls) != 1 || calls[0].Method != http.MethodGet || calls[0].Path != "/books/42" || calls[0].Auth != "Bearer tok" {
		t.Fatalf("calls = %+v, want one authorized GET /books/42", calls)
	}
	if h.ctrl.State() != StateViewing {
		t.Fatalf("state = %v, want viewing", h.ctrl.State())
	}

	image := "u1"
	wantBook := catalog.Book{ID: "42", Title: "Dune", Author: "Herbert", Publisher: "Chilton", Year: 1965, Pages: 412, Image: &image}
	book, ok := h.ctrl.Record()
	if !ok {
		t.Fatalf("record absent after fetch")
	}
	if diff := cmp.Diff(wantBook, book); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	wantBuf := EditBuffer{Title: "Dune", Author: "Herbert", Publisher: "Chilton", Year: "1965", Pages: "412", Image: &image}
	if diff := cmp.Diff(wantBuf, h.ctrl.Buffer()); diff != "" {
		t.Fatalf("buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_SendsIntegersAndRefetches(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)

	if !h.ctrl.Edit() {
		t.Fatalf("Edit() = false, want true")
	}
	if err := h.ctrl.SetField("title", "Dune Messiah"); err != nil {
		t.Fatalf("SetField returned error: %v", err)
	}
	fx := pump(h.ctrl, h.ctrl.Save())

	if diff := cmp.Diff([]string{"GET", "PUT", "GET"}, h.api.methods()); diff != "" {
		t.Fatalf("request sequence mismatch (-want +got):\n%s", diff)
	}
	put := h.api.snapshot()[1]
	want := map[string]any{
		"title": "Dune Messiah", "author": "Herbert", "publisher": "Chilton",
		"year": float64(1965), "pages": float64(412), "image": "u1",
	}
	if diff := cmp.Diff(want, put.Body); diff != "" {
		t.Fatalf("PUT body mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Success"}, fx.titles()); diff != "" {
		t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
	}
	if fx.toasts[0].Severity != toast.Success {
		t.Fatalf("severity = %v, want success", fx.toasts[0].Severity)
	}
	if len(fx.navs) != 0 {
		t.Fatalf("navigations = %v, want none", fx.navs)
	}
	if h.ctrl.State() != StateViewing {
		t.Fatalf("state = %v, want viewing", h.ctrl.State())
	}
	if book, _ := h.ctrl.Record(); book.Title != "Dune Messiah" {
		t.Fatalf("record title = %q, want refetched Dune Messiah", book.Title)
	}
	if got := h.ctrl.Buffer().Title; got != "Dune Messiah" {
		t.Fatalf("buffer title = %q, want Dune Messiah", got)
	}
}

func TestSave_FailureKeepsEditingAndBuffer(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)
	h.api.set(func(f *fakeAPI) { f.updateStatus = http.StatusBadRequest })

	h.ctrl.Edit()
	_ = h.ctrl.SetField("author", "F. Herbert")
	before := h.ctrl.Buffer()
	fx := pump(h.ctrl, h.ctrl.Save())

	if h.ctrl.State() != StateEditing {
		t.Fatalf("state = %v, want editing", h.ctrl.State())
	}
	if diff := cmp.Diff(before, h.ctrl.Buffer()); diff != "" {
		t.Fatalf("buffer changed on failure (-want +got):\n%s", diff)
	}
	if book, _ := h.ctrl.Record(); book.Author != "Herbert" {
		t.Fatalf("record author = %q, want untouched Herbert", book.Author)
	}
	if len(fx.toasts) != 1 || fx.toasts[0].Severity != toast.Error || fx.toasts[0].Description != "Validation failed" {
		t.Fatalf("toasts = %#v, want one error with API message", fx.toasts)
	}
	if diff := cmp.Diff([]string{"GET", "PUT"}, h.api.methods()); diff != "" {
		t.Fatalf("request sequence mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(h.logs.String(), "update book failed") {
		t.Fatalf("log = %q, want update failure logged", h.logs.String())
	}
}

func TestSave_RejectsNonNumericLocally(t *testing.T) {
	h := newHarness(t, testToken, config.NumericReject)
	h.mount(t)

	h.ctrl.Edit()
	_ = h.ctrl.SetField("year", "19x5")
	fx := pump(h.ctrl, h.ctrl.Save())

	if diff := cmp.Diff([]string{"GET"}, h.api.methods()); diff != "" {
		t.Fatalf("request sequence mismatch (-want +got):\n%s", diff)
	}
	if len(fx.toasts) != 1 || fx.toasts[0].Severity != toast.Warning || !strings.Contains(fx.toasts[0].Description, "Year") {
		t.Fatalf("toasts = %#v, want one warning naming Year", fx.toasts)
	}
	if h.ctrl.State() != StateEditing || h.ctrl.Buffer().Year != "19x5" {
		t.Fatalf("state=%v year=%q, want editing with text kept", h.ctrl.State(), h.ctrl.Buffer().Year)
	}
}

func TestSave_PassthroughForwardsNull(t *testing.T) {
	h := newHarness(t, testToken, config.NumericPassthrough)
	h.mount(t)

	h.ctrl.Edit()
	_ = h.ctrl.SetField("year", "abc")
	_ = h.ctrl.SetField("pages", " 500 pages")
	pump(h.ctrl, h.ctrl.Save())

	calls := h.api.snapshot()
	if len(calls) < 2 || calls[1].Method != http.MethodPut {
		t.Fatalf("calls = %+v, want a PUT second", calls)
	}
	body := calls[1].Body
	if v, ok := body["year"]; !ok || v != nil {
		t.Fatalf("year = %v (present=%v), want null", v, ok)
	}
	if body["pages"] != float64(500) {
		t.Fatalf("pages = %v, want 500", body["pages"])
	}
}

func TestDelete_DeclineIssuesNothing(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)

	if !h.ctrl.RequestDelete() {
		t.Fatalf("RequestDelete() = false, want true")
	}
	if !h.ctrl.Confirming() {
		t.Fatalf("Confirming() = false after RequestDelete")
	}
	if cmd := h.ctrl.ConfirmDelete(false); cmd != nil {
		t.Fatalf("ConfirmDelete(false) returned a command")
	}

	if diff := cmp.Diff([]string{"GET"}, h.api.methods()); diff != "" {
		t.Fatalf("request sequence mismatch (-want +got):\n%s", diff)
	}
	if h.ctrl.State() != StateViewing || h.ctrl.Confirming() {
		t.Fatalf("state=%v confirming=%v, want viewing and closed gate", h.ctrl.State(), h.ctrl.Confirming())
	}
}

func TestDelete_FailureStaysOnPage(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)
	h.api.set(func(f *fakeAPI) { f.deleteStatus = http.StatusInternalServerError })

	h.ctrl.RequestDelete()
	fx := pump(h.ctrl, h.ctrl.ConfirmDelete(true))

	if diff := cmp.Diff([]string{"GET", "DELETE"}, h.api.methods()); diff != "" {
		t.Fatalf("request sequence mismatch (-want +got):\n%s", diff)
	}
	if h.ctrl.State() != StateViewing || h.ctrl.Closed() {
		t.Fatalf("state=%v closed=%v, want viewing and open", h.ctrl.State(), h.ctrl.Closed())
	}
	if len(fx.navs) != 0 {
		t.Fatalf("navigations = %v, want none", fx.navs)
	}
	if !strings.Contains(h.logs.String(), "delete book failed") {
		t.Fatalf("log = %q, want delete failure logged", h.logs.String())
	}
	if len(fx.toasts) != 1 || fx.toasts[0].Severity != toast.Error {
		t.Fatalf("toasts = %#v, want one error", fx.toasts)
	}
}

func TestDelete_SuccessNavigatesToRoot(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)

	h.ctrl.RequestDelete()
	fx := pump(h.ctrl, h.ctrl.ConfirmDelete(true))

	if diff := cmp.Diff([]string{route.Root}, fx.navs); diff != "" {
		t.Fatalf("navigations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Success"}, fx.titles()); diff != "" {
		t.Fatalf("toasts mismatch (-want +got):\n%s", diff)
	}
	if !h.ctrl.Closed() {
		t.Fatalf("controller still open after delete")
	}
	if h.ctrl.Edit() || h.ctrl.RequestDelete() || h.ctrl.Refresh() != nil {
		t.Fatalf("closed controller accepted an action")
	}
}

func TestEditCancel_RestoresBuffer(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)
	before := h.ctrl.Buffer()

	h.ctrl.Edit()
	h.ctrl.Cancel()
	if diff := cmp.Diff(before, h.ctrl.Buffer()); diff != "" {
		t.Fatalf("buffer changed by edit+cancel (-want +got):\n%s", diff)
	}

	h.ctrl.Edit()
	_ = h.ctrl.SetField("title", "Scratch")
	_ = h.ctrl.SetField("image", "")
	h.ctrl.Cancel()
	if diff := cmp.Diff(before, h.ctrl.Buffer()); diff != "" {
		t.Fatalf("cancel did not restore buffer (-want +got):\n%s", diff)
	}
	if h.ctrl.State() != StateViewing {
		t.Fatalf("state = %v, want viewing", h.ctrl.State())
	}
}

func TestSetField_TouchesOnlyNamedField(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)

	if err := h.ctrl.SetField("title", "x"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("SetField outside editing = %v, want ErrNotEditing", err)
	}

	h.ctrl.Edit()
	before := h.ctrl.Buffer()
	if err := h.ctrl.SetField("pages", ""); err != nil {
		t.Fatalf("SetField returned error: %v", err)
	}
	want := before
	want.Pages = ""
	if diff := cmp.Diff(want, h.ctrl.Buffer()); diff != "" {
		t.Fatalf("buffer mismatch (-want +got):\n%s", diff)
	}
	if err := h.ctrl.SetField("isbn", "1"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("SetField(isbn) = %v, want ErrUnknownField", err)
	}
}

func TestFetchFailure_PlaceholderAndRetry(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.api.set(func(f *fakeAPI) { f.fetchStatus = http.StatusInternalServerError })

	fx := h.mount(t)

	if len(fx.toasts) != 0 || len(fx.navs) != 0 {
		t.Fatalf("fetch failure produced effects %+v, want none", fx)
	}
	if _, ok := h.ctrl.Record(); ok {
		t.Fatalf("record present after failed fetch")
	}
	if h.ctrl.State() != StateViewing || h.ctrl.FetchErr() == nil {
		t.Fatalf("state=%v err=%v, want viewing with error", h.ctrl.State(), h.ctrl.FetchErr())
	}
	if h.ctrl.Edit() || h.ctrl.RequestDelete() {
		t.Fatalf("edit/delete allowed without a record")
	}
	if !strings.Contains(h.logs.String(), "fetch book failed") {
		t.Fatalf("log = %q, want fetch failure logged", h.logs.String())
	}

	h.api.set(func(f *fakeAPI) { f.fetchStatus = 0 })
	pump(h.ctrl, h.ctrl.Refresh())
	if _, ok := h.ctrl.Record(); !ok || h.ctrl.FetchErr() != nil {
		t.Fatalf("retry did not load the record")
	}
}

func TestTokenClearedMidSessionFailsNextRequest(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)

	_ = h.creds.Clear()
	h.ctrl.Edit()
	fx := pump(h.ctrl, h.ctrl.Save())

	calls := h.api.snapshot()
	if calls[len(calls)-1].Auth != "" {
		t.Fatalf("last request Authorization = %q, want none", calls[len(calls)-1].Auth)
	}
	if len(fx.toasts) != 1 || !strings.Contains(fx.toasts[0].Description, "Log in again") {
		t.Fatalf("toasts = %#v, want session notice", fx.toasts)
	}
	if h.ctrl.State() != StateEditing {
		t.Fatalf("state = %v, want editing", h.ctrl.State())
	}
}

func TestActionsRefusedWhileRefetching(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)
	h.ctrl.Edit()

	updated := h.ctrl.Save()()
	refetch := h.ctrl.Update(updated)
	if !h.ctrl.Fetching() {
		t.Fatalf("Fetching() = false after successful save")
	}
	if h.ctrl.Edit() || h.ctrl.RequestDelete() || h.ctrl.Refresh() != nil {
		t.Fatalf("action accepted while re-fetch in flight")
	}
	pump(h.ctrl, refetch)
	if h.ctrl.Fetching() || !h.ctrl.Edit() {
		t.Fatalf("controller not editable after re-fetch settled")
	}
}

func TestStaleResponsesAreDropped(t *testing.T) {
	_, client := newFakeAPI(t)
	guard := &inflight.Guard[string]{}
	creds := credential.NewMemoryStore(testToken)
	opts := Options{ID: "42", API: client, Credentials: creds, Guard: guard}

	first := New(opts)
	firstFetch := first.Mount()

	second := New(opts)
	secondFetch := second.Mount()

	stale := firstFetch()
	if cmd := second.Update(stale); cmd != nil {
		t.Fatalf("second controller returned a command for a foreign response")
	}
	if _, ok := second.Record(); ok {
		t.Fatalf("second controller applied the first controller's response")
	}
	first.Update(stale)
	if _, ok := first.Record(); ok {
		t.Fatalf("superseded response applied to first controller")
	}
	if first.State() != StateLoading {
		t.Fatalf("first state = %v, want still loading", first.State())
	}

	pump(second, secondFetch)
	if _, ok := second.Record(); !ok {
		t.Fatalf("current response not applied")
	}
}

func TestResponseAfterUnmountIsIgnored(t *testing.T) {
	h := newHarness(t, testToken, "")
	cmd := h.ctrl.Mount()
	h.ctrl.Unmount()

	msg := cmd()
	if out := h.ctrl.Update(msg); out != nil {
		t.Fatalf("Update after unmount returned a command")
	}
	if _, ok := h.ctrl.Record(); ok {
		t.Fatalf("record applied after unmount")
	}
}

func TestUpdateIgnoresUnrelatedMessages(t *testing.T) {
	h := newHarness(t, testToken, "")
	h.mount(t)
	if cmd := h.ctrl.Update(tea.KeyMsg{}); cmd != nil {
		t.Fatalf("Update(KeyMsg) returned a command")
	}
	if cmd := h.ctrl.Update(fetchedMsg{id: "other"}); cmd != nil {
		t.Fatalf("Update(foreign fetch) returned a command")
	}
}
