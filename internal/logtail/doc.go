// Package logtail reads the end of shelf's JSON log file for the diagnostics
// overlay.
//
// Read returns the last N raw lines using a single pass and a ring buffer of
// N entries, so memory stays bounded regardless of file size. A missing file
// reads as no lines.
//
// Tail builds on Read and decodes each line written by the slog JSON handler
// into an Entry. The standard keys (time, level, msg, component, book_id) get
// fields of their own; every other attribute becomes a Detail, sorted by key.
// Lines that are not JSON are kept verbatim in Entry.Raw.
//
//	entries, err := logtail.Tail(cfg.LogFile, 200)
//	for _, e := range entries {
//		fmt.Println(e.Format())
//	}
//
// Format output looks like:
//
//	2026-10-17 14:32:15 ERROR [detail] Book 42 – update book failed
//	    - error: update book: returned status 400: Validation failed
package logtail
