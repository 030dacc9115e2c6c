package pipeline

// ValidationError reports a file rejected by the pre-parse gate (missing
// file, wrong extension, oversized). The message is user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FormatError reports CSV content that cannot be parsed into a table at all.
// Row-level anomalies never raise it; they are dropped or defaulted instead.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}
