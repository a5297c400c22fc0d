package ui

// Form and modal sizing.
const (
	// FormLabelWidth is the column width reserved for field labels.
	FormLabelWidth = 11

	// MinInputWidth and MaxInputWidth bound text input widths.
	MinInputWidth = 20
	MaxInputWidth = 60

	// ModalWidth is the width of the help and confirmation modals.
	ModalWidth = 44
)

// LogTailLimit is the number of log lines the diagnostics overlay reads.
const LogTailLimit = 300
