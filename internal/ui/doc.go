// Package ui is shelf's Bubble Tea front end.
//
// # Routing
//
// Model is the only receiver of route.NavigateMsg. Each navigation unmounts
// the current detail.Controller, re-mounts the session gate (the navbar is on
// every page) and shows one of three pages:
//
//   - "/": open a book by id
//   - "/login": paste an API token
//   - "/books/{id}": the detail page, driven by a fresh detail.Controller
//
// Opening a book remembers its id in preferences so the next start resumes
// there; deleting it forgets the id.
//
// # Messages
//
// Controllers and the gate never touch the model. They return commands that
// emit route.NavigateMsg or toast.Notification, and the model applies those on
// the next Update. Request results are forwarded to the mounted controller,
// which drops anything that is not its latest.
//
// # Keys
//
// Overlays (help, diagnostics log, delete confirmation) take keys first, then
// a focused text input, then the global bindings from keyMap. Open and logout
// act only while authenticated; login only while not.
//
// # Files
//
//   - app.go: Model, router, key dispatch, Run
//   - navbar.go: session-aware top bar
//   - book.go: detail card, load-failure placeholder, edit form
//   - confirm.go: delete confirmation modal
//   - login.go, home.go: token and book-id inputs
//   - logs.go: diagnostics overlay over the JSON log file
//   - toasts.go, help.go, theme.go, keys.go: presentation
package ui
