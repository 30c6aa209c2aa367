package normalize

import (
	"strings"
	"time"

	"github.com/approvly/approvly/internal/ingest/format"
	"github.com/approvly/approvly/internal/ingest/rowfn"
	"github.com/approvly/approvly/internal/ingest/timezone"
	postdomain "github.com/approvly/approvly/internal/post/domain"
)

const maxContentLen = 1000

type PostsResult struct {
	Records []postdomain.PostDraft
	Rows    []int
	Errors  []string
	// Timezone is the label extracted from the time column header, written
	// back onto the client after a successful import.
	Timezone string
}

// postsSchema resolves the dynamic columns once per file instead of
// re-scanning header keys per row.
type postsSchema struct {
	urlKey   string
	timeKey  string
	tzLabel  string
	tzOffset float64
}

// Posts normalizes a posts-workflow export. A row with a blank date cell
// inherits the most recently seen non-blank date (merged spreadsheet
// cells), so rows are folded strictly in file order.
func Posts(table *format.Table, opts Options, now time.Time) PostsResult {
	var result PostsResult

	schema := resolvePostsSchema(table)
	result.Timezone = schema.tzLabel
	if schema.tzLabel != "" {
		if _, known := timezone.Lookup(schema.tzLabel); !known {
			if opts.StrictTimezone {
				result.Errors = append(result.Errors, "unrecognized timezone label \""+schema.tzLabel+"\", refusing to schedule rows")
			}
		}
	}

	var carryDate time.Time
	haveCarry := false

	for i := range table.Rows {
		row := table.Row(i)

		url := normalizeTypefullyURL(row[schema.urlKey])
		if url == "" {
			// A row without the key identifier is not a post.
			continue
		}

		rawDate := row["date"]
		date, haveDate := parsePostDate(rawDate, now)
		if haveDate {
			carryDate = date
			haveCarry = true
		} else if rawDate != "" {
			result.Errors = append(result.Errors, rowErr(i, "unparseable date %q", rawDate))
		} else if haveCarry {
			date = carryDate
			haveDate = true
		}

		var scheduled *time.Time
		if haveDate {
			instant := combineLocal(date, row[schema.timeKey], schema.tzOffset)
			scheduled = &instant
		} else if opts.StrictDates {
			result.Errors = append(result.Errors, rowErr(i, "no date available (nothing to carry forward)"))
		}

		content := strings.TrimSpace(pick(row, "topic outline"))
		if runes := []rune(content); len(runes) > maxContentLen {
			content = string(runes[:maxContentLen])
		}

		result.Rows = append(result.Rows, i)
		result.Records = append(result.Records, postdomain.PostDraft{
			TypefullyURL:  url,
			Content:       content,
			Format:        row["format"],
			TweetText:     row["tweet text"],
			ScheduledDate: scheduled,
			Status:        resolveStatus(row["status"], row["approval"]),
		})
	}

	return result
}

func resolvePostsSchema(table *format.Table) postsSchema {
	schema := postsSchema{}

	if key, ok := table.HeaderMatching(func(h string) bool {
		return strings.Contains(h, "typefully") && !strings.Contains(h, "scheduling")
	}); ok {
		schema.urlKey = key
	}

	if key, ok := table.HeaderMatching(func(h string) bool {
		return strings.HasPrefix(h, "time (")
	}); ok {
		schema.timeKey = key
	} else if key, ok := table.HeaderMatching(func(h string) bool {
		return h == "time"
	}); ok {
		schema.timeKey = key
	}

	if label, ok := format.TimeColumnLabel(table); ok {
		schema.tzLabel = label
		schema.tzOffset = timezone.Resolve(label)
	}

	return schema
}

// parsePostDate handles dates that may lack a year. A yearless date is
// assumed to be in the current year, unless that lands more than six
// months in the future, in which case it meant last year (a December
// spreadsheet scheduling January, or the reverse).
func parsePostDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if date, ok := rowfn.Date(raw); ok {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), true
	}

	month, day, ok := parseMonthDay(raw)
	if !ok {
		return time.Time{}, false
	}

	date := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if date.After(now.AddDate(0, 6, 0)) {
		date = date.AddDate(-1, 0, 0)
	}
	return date, true
}

var monthDayLayouts = []string{
	"January 2",
	"Jan 2",
	"2 January",
	"2 Jan",
	"1/2",
	"01/02",
}

func parseMonthDay(raw string) (time.Month, int, bool) {
	for _, layout := range monthDayLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Month(), parsed.Day(), true
		}
	}
	return 0, 0, false
}

// combineLocal composes the date with an "HH:MM" wall-clock value and
// converts the local time to a UTC instant by subtracting the resolved
// offset. Half-hour offsets (IST) are the finest granularity supported;
// DST transitions are not modelled.
func combineLocal(date time.Time, rawTime string, offsetHours float64) time.Time {
	hour, minute := parseClock(rawTime)
	local := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
	return local.Add(-time.Duration(offsetHours * float64(time.Hour)))
}

func parseClock(raw string) (int, int) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0
	}

	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM", "3PM"} {
		if parsed, err := time.Parse(layout, strings.ToUpper(raw)); err == nil {
			return parsed.Hour(), parsed.Minute()
		}
	}
	return 0, 0
}

// resolveStatus applies the two-column precedence rule: a Status cell
// containing "posted" wins unconditionally over whatever the Approval
// column says. This is deliberate business policy.
func resolveStatus(statusCell, approvalCell string) postdomain.Status {
	if strings.Contains(strings.ToLower(statusCell), "posted") {
		return postdomain.StatusPublished
	}

	approval := strings.ToLower(approvalCell)
	switch {
	case strings.Contains(approval, "needs revision"):
		return postdomain.StatusSuggestChanges
	case strings.Contains(approval, "approved"):
		return postdomain.StatusApproved
	case strings.Contains(approval, "rejected"):
		return postdomain.StatusRejected
	}
	return postdomain.StatusPending
}

func normalizeTypefullyURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}
