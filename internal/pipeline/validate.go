package pipeline

import "strings"

// MaxCSVFileSize is the upload size gate, applied before any content is read.
const MaxCSVFileSize = 10 * 1024 * 1024

// FileInfo describes an upload candidate. Only the name and declared size
// are checked; content is never inspected here.
type FileInfo struct {
	Name string
	Size int64
}

// ValidateCSVFile gates a file before parsing is attempted. A nil file, a
// filename without a .csv extension (case-insensitive), or a size over the
// limit fails with a user-facing ValidationError.
func ValidateCSVFile(file *FileInfo) error {
	if file == nil {
		return &ValidationError{Message: "No file provided"}
	}
	if !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
		return &ValidationError{Message: "File must be a CSV file"}
	}
	if file.Size > MaxCSVFileSize {
		return &ValidationError{Message: "File size must be less than 10MB"}
	}
	return nil
}
