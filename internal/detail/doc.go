// Package detail implements the lifecycle of a single book on screen.
//
// # States
//
//	Idle ──Mount──┬─ no token ──> Unauthorized   (notify + navigate to /login)
//	              └─ token ─────> Loading ──fetch──> Viewing
//
//	Viewing ──Edit──> Editing ──Save──> Saving ──ok──> Viewing (+ re-fetch)
//	                     │                 └───fail──> Editing
//	                     └──Cancel──> Viewing (buffer restored)
//
//	Viewing ──RequestDelete──> (confirming) ──yes──> Deleting ──ok──> closed, navigate to /
//	                               └──no──> Viewing             └─fail──> Viewing
//
// A failed fetch leaves the record as it was (absent on first load) and the
// controller in Viewing; the page renders a placeholder with a retry key.
//
// # Requests
//
// Fetch, update and delete run as tea.Cmd functions. Each reads the token from
// the credential.Provider when it runs, so a token cleared mid-session makes
// the next request fail with an authorization error rather than reuse a stale
// one. Results return through Update as unexported messages.
//
// # Sequencing
//
// Every request takes a ticket from an inflight.Guard keyed by book id. A
// result is applied only when its ticket is both this controller's latest and
// the guard's latest for the id. Mutations, edits and refreshes are refused
// while another request from the same controller is outstanding, and results
// arriving after Unmount are dropped.
//
// # Edit Buffer
//
// The buffer holds every field as text. Save coerces year and pages according
// to the configured config.NumericPolicy: reject (default) refuses to send
// non-integers and raises a warning notification; passthrough parses leading
// digits and forwards unparseable values as JSON null.
//
// # Collaborators
//
// Navigation and notifications are one-way: the controller returns
// route.To and toast.Show commands and never waits on their outcome.
package detail
