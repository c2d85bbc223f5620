package resumes

import (
	"strings"
	"time"
)

// ParseDate interprets an ISO-8601 calendar date string (YYYY-MM-DD).
// Empty or malformed input yields nil: upstream parsers emit junk dates
// often enough that losing the date beats rejecting the whole record.
func ParseDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil
	}
	return &t
}
