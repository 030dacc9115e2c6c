package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the canonical calendar-date form carried by Transaction.Date.
const dateLayout = "2006-01-02"

// dateLayouts are the input forms parseDate attempts, in order. Time-of-day
// and timezone components are discarded; only the calendar date survives.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseDate attempts a best-effort parse of a date string.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate returns the canonical YYYY-MM-DD form of a date string.
// Empty or unparsable input falls back to today's date.
func NormalizeDate(value string) string {
	return normalizeDate(value, time.Now())
}

func normalizeDate(value string, now time.Time) string {
	if t, ok := parseDate(value); ok {
		return t.Format(dateLayout)
	}
	return now.Format(dateLayout)
}

// statusAliases folds free-text status values into the closed vocabulary.
var statusAliases = map[string]string{
	"approved": StatusApproved,
	"approve":  StatusApproved,
	"accepted": StatusApproved,
	"complete": StatusApproved,
	"rejected": StatusRejected,
	"denied":   StatusRejected,
	"declined": StatusRejected,
}

// NormalizeStatus maps a free-text status onto the closed vocabulary.
// Anything unrecognized, including the empty string, becomes pending.
func NormalizeStatus(value string) string {
	if status, ok := statusAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return status
	}
	return StatusPending
}

// cleanString trims a raw field value. Field-specific fallbacks are applied
// by the caller afterward.
func cleanString(value string) string {
	return strings.TrimSpace(value)
}

// CategoryColor derives a stable display color for a category name by
// hashing it onto a hue circle at fixed saturation and lightness. Same name,
// same color, across runs. Collisions between names are acceptable.
func CategoryColor(name string) string {
	var hash int32
	for _, r := range name {
		hash = int32(r) + (hash<<5 - hash)
	}
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", hueFor(hash))
}

// hueFor maps a 32-bit hash onto [0, 360). The magnitude is taken in 64-bit
// space so negating the minimum int32 value cannot wrap back negative.
func hueFor(hash int32) int64 {
	hue := int64(hash)
	if hue < 0 {
		hue = -hue
	}
	return hue % 360
}
