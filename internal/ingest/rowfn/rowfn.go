// Package rowfn holds the shared cell-coercion primitives used by every
// format normalizer. Analytics exports are messy: counters arrive with
// thousands separators, percent signs, or blank cells, and dates arrive in
// whatever shape the exporting tool chose that week.
package rowfn

import (
	"strconv"
	"strings"
	"time"
)

// Int strips non-numeric characters and parses the rest. Blank or
// unparseable cells coerce to 0; negative counters clamp to 0.
func Int(raw string) int {
	cleaned := cleanNumeric(raw)
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	value, err := strconv.Atoi(cleaned)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// Float is the fractional counterpart of Int.
func Float(raw string) float64 {
	cleaned := cleanNumeric(raw)
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// SignedInt keeps the sign; follower deltas can legitimately be negative.
func SignedInt(raw string) (int, bool) {
	cleaned := cleanNumeric(raw)
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	value, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return value, true
}

func cleanNumeric(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Bool matches true/1/yes case-insensitively; anything else is false.
func Bool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Rate derives a ratio capped at 1.0, returning 0 when the denominator
// is not positive.
func Rate(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	rate := numerator / denominator
	if rate > 1 {
		return 1
	}
	return rate
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon Jan 2 15:04:05 -0700 2006",
}

// Date attempts a native parse across the known export layouts, then retries
// the value as MM/DD/YYYY and DD/MM/YYYY by re-splitting on '-' and '/'.
// The boolean reports whether the input was genuinely parseable; callers in
// permissive mode substitute their own "now" when it is false.
func Date(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), true
		}
	}

	if parsed, ok := dateFromParts(trimmed); ok {
		return parsed, true
	}

	return time.Time{}, false
}

// dateFromParts recombines a 3-part numeric date, trying year-first,
// MM/DD/YYYY, then DD/MM/YYYY.
func dateFromParts(raw string) (time.Time, bool) {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '-' || r == '/'
	})
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	type ymd struct{ y, m, d int }
	var candidates []ymd
	if len(parts[0]) == 4 {
		candidates = append(candidates, ymd{nums[0], nums[1], nums[2]})
	} else {
		candidates = append(candidates,
			ymd{nums[2], nums[0], nums[1]}, // MM/DD/YYYY
			ymd{nums[2], nums[1], nums[0]}, // DD/MM/YYYY
		)
	}

	for _, c := range candidates {
		if c.y < 1000 || c.m < 1 || c.m > 12 || c.d < 1 || c.d > 31 {
			continue
		}
		parsed := time.Date(c.y, time.Month(c.m), c.d, 0, 0, 0, 0, time.UTC)
		// Reject overflowed days (e.g. Feb 31 normalizing into March).
		if parsed.Day() != c.d {
			continue
		}
		return parsed, true
	}
	return time.Time{}, false
}
