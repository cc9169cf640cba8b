// export_test.go exports private functions for white-box testing.
package logger

// ErrorEntry mirrors errorEntry for tests.
type ErrorEntry = errorEntry

// ExportErrorFormatting exports the private error formatting functions for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)

// Message returns the entry's message.
func (e errorEntry) Message() string { return e.message }

// Metadata returns the entry's metadata.
func (e errorEntry) Metadata() map[string]any { return e.metadata }
