package format

import (
	"fmt"
	"regexp"
	"strings"
)

// Format tags one of the known export schemas.
type Format string

const (
	TypefullyTweets Format = "typefully-tweets"
	TwitterLegacy   Format = "twitter-legacy"
	AgencyAnalytics Format = "agency-analytics"
	PostsWorkflow   Format = "posts-workflow"
	Followers       Format = "followers"
)

// formatSpec pairs a format tag with its header predicate. Detection walks
// the list in order and takes the first match, so adding a format never
// touches the existing branches.
type formatSpec struct {
	format Format
	match  func(t *Table) bool
}

var registry = []formatSpec{
	{TypefullyTweets, func(t *Table) bool {
		return t.HasHeader("tweet_id") && t.HasHeader("created_at")
	}},
	{Followers, func(t *Table) bool {
		return t.HasHeaderContaining("date range") && t.HasHeaderContaining("followers")
	}},
	{PostsWorkflow, func(t *Table) bool {
		return t.HasHeaderContaining("topic outline") && t.HasHeaderContaining("typefully")
	}},
	{AgencyAnalytics, func(t *Table) bool {
		return t.HasHeaderContaining("client name") || t.HasHeader("clientname")
	}},
}

// Detect classifies a table by its header set. Anything unrecognized is
// treated as the legacy Twitter analytics export, the schema these files
// predate header conventions for.
func Detect(t *Table) Format {
	for _, spec := range registry {
		if spec.match(t) {
			return spec.format
		}
	}
	return TwitterLegacy
}

// timeColumnPattern extracts the timezone label out of a literal header
// such as "Time (GMT +8)".
var timeColumnPattern = regexp.MustCompile(`(?i)^time\s*\((.+)\)$`)

// TimeColumnLabel returns the timezone label embedded in the posts time
// column header, if the table has one.
func TimeColumnLabel(t *Table) (string, bool) {
	for _, raw := range t.RawHeaders {
		if m := timeColumnPattern.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// defaultPostsHeaders is the synthesized header row used when a posts
// export arrives without one (the first line is already data).
var defaultPostsHeaders = []string{
	"Date",
	"Topic Outline",
	"Format",
	"Tweet Text",
	"Typefully Draft Link",
	"Time (GMT)",
	"Typefully Scheduling",
	"Approval",
	"Status",
}

var leadingDatePattern = regexp.MustCompile(`^\s*(\d{1,2}[/-]\d{1,2}|\d{4}-\d{1,2}|(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec))`)

// PostsTable builds the table for the posts-workflow path. When the first
// record is not a proper header row (no topic outline / typefully columns
// and a date-shaped first cell), headers are synthesized so the record is
// kept as data.
func PostsTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	probe, err := NewTable(records)
	if err != nil {
		return nil, err
	}

	if probe.HasHeaderContaining("topic outline") && probe.HasHeaderContaining("typefully") {
		return probe, nil
	}

	first := ""
	if len(records[0]) > 0 {
		first = records[0][0]
	}
	if !leadingDatePattern.MatchString(first) {
		return nil, fmt.Errorf("unsupported posts file: no Topic Outline/Typefully columns and first cell %q is not a date", strings.TrimSpace(first))
	}

	synthesized := make([][]string, 0, len(records)+1)
	synthesized = append(synthesized, defaultPostsHeaders)
	synthesized = append(synthesized, records...)
	return NewTable(synthesized)
}

// ValidateFollowers rejects tables missing the followers export columns.
func ValidateFollowers(t *Table) error {
	if !t.HasHeaderContaining("date range") || !t.HasHeaderContaining("followers") {
		return fmt.Errorf("unsupported followers file format: expected Date Range and Followers columns, got %s", strings.Join(t.RawHeaders, ", "))
	}
	return nil
}
