package pipeline

import (
	"regexp"
	"strings"
)

var headerKeyPattern = regexp.MustCompile(`[^a-z0-9]+`)

// canonicalKey turns a raw header cell into the lookup key used by RawRow:
// trimmed, lowercased, with every run of non-alphanumerics collapsed to "_".
func canonicalKey(header string) string {
	return headerKeyPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_")
}

// parseLine splits a single CSV line into fields. A double quote toggles
// quoted mode, a doubled quote inside a quoted field emits one literal quote,
// and commas are separators only outside quotes. Lexing is total: unbalanced
// quotes simply consume the rest of the line literally, and a trailing comma
// yields a trailing empty field.
func parseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++ // consume the second quote
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	return append(fields, current.String())
}

// ParseCSV splits raw CSV text into a header plus data rows.
//
// Blank lines are discarded before anything else, so a trailing newline does
// not produce a phantom row. A data line is kept only when its field count
// matches the header and at least one field is non-blank; everything else is
// silently dropped. Fewer than two non-blank lines is a FormatError.
func ParseCSV(content string) (*RawTable, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		return nil, &FormatError{Message: "CSV file must contain at least a header row and one data row"}
	}

	headers := parseLine(lines[0])
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = canonicalKey(h)
	}

	// Rows stays non-nil even when every data line is filtered out: a header
	// plus only malformed rows parses to an empty table, not a failure.
	rows := []RawRow{}
	for _, line := range lines[1:] {
		values := parseLine(line)
		if len(values) != len(headers) {
			continue
		}
		blank := true
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		row := make(RawRow, len(keys))
		for i, key := range keys {
			row[key] = strings.TrimSpace(values[i])
		}
		rows = append(rows, row)
	}

	return &RawTable{Headers: headers, Rows: rows}, nil
}
