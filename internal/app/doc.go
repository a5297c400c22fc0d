// Package app is the composition root for shelf.
//
// Run loads config.toml, opens the JSON log file, builds the catalog client
// and the file-backed credential store, loads preferences and hands them to
// the ui package. A single inflight.Guard is shared by every detail
// controller the UI creates, so responses for a book id are sequenced across
// page changes.
//
// Status, Login and Logout back the CLI subcommands. They reuse the same
// config, log file and token store as the TUI.
//
// Startup failures (unreadable config, log file that cannot be opened,
// invalid API URL) are returned to main. Nothing after startup is fatal.
package app
