// Package normalize converts raw string rows of a detected format into
// typed records. Row order is semantically significant: the posts path
// carries dates forward across blank cells and the followers path derives
// deltas from the preceding row, so every normalizer is a sequential fold.
package normalize

import "fmt"

// Options controls whether silent fallbacks are allowed. Permissive mode
// matches the historical import behavior (unparseable date becomes "now",
// unknown timezone becomes UTC); strict mode surfaces both as row errors.
type Options struct {
	StrictDates    bool
	StrictTimezone bool
}

// rowErr formats a row-level error with 1-based indexing that accounts for
// the header row: data row 0 is row 2 of the file.
func rowErr(dataIndex int, format string, args ...any) string {
	return fmt.Sprintf("row %d: %s", dataIndex+2, fmt.Sprintf(format, args...))
}

func pick(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if value, ok := row[key]; ok && value != "" {
			return value
		}
	}
	return ""
}
