package normalize

import (
	"strings"
	"time"

	analyticsdomain "github.com/approvly/approvly/internal/analytics/domain"
	"github.com/approvly/approvly/internal/ingest/format"
	"github.com/approvly/approvly/internal/ingest/rowfn"
)

type FollowersResult struct {
	Records []analyticsdomain.FollowerAnalytics
	Rows    []int
	Errors  []string
}

// Followers normalizes a followers export. FollowersGained is the delta
// from the previous valid row's count within the same file (0 for the
// first), which is why rows must be processed in file order. Rows with a
// blank or unparseable follower count are skipped, not errored.
func Followers(table *format.Table, opts Options, now time.Time) FollowersResult {
	var result FollowersResult

	rangeKey, _ := table.HeaderMatching(func(h string) bool {
		return strings.Contains(h, "date range")
	})
	countKey, _ := table.HeaderMatching(func(h string) bool {
		return strings.Contains(h, "followers")
	})

	prev := 0
	havePrev := false
	for i := range table.Rows {
		row := table.Row(i)

		count, ok := rowfn.SignedInt(row[countKey])
		if !ok {
			continue
		}
		if count < 0 {
			count = 0
		}

		start, end, ok := parseDateRange(row[rangeKey])
		if !ok {
			result.Errors = append(result.Errors, rowErr(i, "unparseable date range %q", row[rangeKey]))
			continue
		}

		gained := 0
		if havePrev {
			gained = count - prev
		}
		prev = count
		havePrev = true

		result.Rows = append(result.Rows, i)
		result.Records = append(result.Records, analyticsdomain.FollowerAnalytics{
			StartDate:       start,
			EndDate:         end,
			FollowerCount:   count,
			FollowersGained: gained,
		})
	}

	return result
}

// parseDateRange splits "<start> - <end>"; a single date stands for a
// one-day range.
func parseDateRange(raw string) (time.Time, time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, time.Time{}, false
	}

	if start, end, found := strings.Cut(raw, " - "); found {
		startDate, ok1 := rowfn.Date(start)
		endDate, ok2 := rowfn.Date(end)
		if !ok1 || !ok2 {
			return time.Time{}, time.Time{}, false
		}
		return startDate, endDate, true
	}

	date, ok := rowfn.Date(raw)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return date, date, true
}
