package chainstate

import "fmt"

// FormatError reports bytes that do not follow the chainstate encoding.
// A FormatError is never retryable.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("chainstate: malformed %s: %s", e.Field, e.Reason)
}

func formatErrorf(field, format string, args ...any) *FormatError {
	return &FormatError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
