package normalize

import (
	"time"

	analyticsdomain "github.com/approvly/approvly/internal/analytics/domain"
	"github.com/approvly/approvly/internal/ingest/format"
	"github.com/approvly/approvly/internal/ingest/rowfn"
)

// DailyResult holds day-granularity records for one client.
type DailyResult struct {
	Records []analyticsdomain.DailyAnalytics
	Rows    []int
	Errors  []string
}

// Daily normalizes the legacy Twitter analytics export (one row per day,
// no client column).
func Daily(table *format.Table, opts Options, now time.Time) DailyResult {
	var result DailyResult

	for i := range table.Rows {
		row := table.Row(i)

		date, ok := rowfn.Date(row["date"])
		if !ok {
			if opts.StrictDates {
				result.Errors = append(result.Errors, rowErr(i, "unparseable date %q", row["date"]))
				continue
			}
			date = now
		}
		date = truncateToDay(date)

		impressions := rowfn.Int(row["impressions"])
		engagements := rowfn.Int(row["engagements"])
		profileVisits := rowfn.Int(row["profile visits"])

		result.Rows = append(result.Rows, i)
		result.Records = append(result.Records, analyticsdomain.DailyAnalytics{
			Date:             date,
			Impressions:      impressions,
			Engagements:      engagements,
			Likes:            rowfn.Int(row["likes"]),
			Retweets:         rowfn.Int(row["reposts"]),
			Replies:          rowfn.Int(row["replies"]),
			ProfileClicks:    profileVisits,
			Follows:          rowfn.Int(row["new follows"]),
			Unfollows:        rowfn.Int(row["unfollows"]),
			Bookmarks:        rowfn.Int(row["bookmarks"]),
			Shares:           rowfn.Int(row["shares"]),
			VideoViews:       rowfn.Int(row["video views"]),
			MediaViews:       rowfn.Int(row["media views"]),
			EngagementRate:   rowfn.Rate(float64(engagements), float64(impressions)),
			ClickThroughRate: rowfn.Rate(float64(profileVisits), float64(impressions)),
		})
	}

	return result
}

// AgencyDailyRecord pairs a daily record with the client name it belongs
// to; the agency export carries many clients in one file.
type AgencyDailyRecord struct {
	ClientName string
	Record     analyticsdomain.DailyAnalytics
}

type AgencyDailyResult struct {
	Records []AgencyDailyRecord
	Rows    []int
	Errors  []string
}

// AgencyDaily normalizes the agency-wide analytics CSV. Both Title-Case
// and camelCase header variants are accepted.
func AgencyDaily(table *format.Table, opts Options, now time.Time) AgencyDailyResult {
	var result AgencyDailyResult

	for i := range table.Rows {
		row := table.Row(i)

		clientName := pick(row, "client name", "clientname")
		if clientName == "" {
			result.Errors = append(result.Errors, rowErr(i, "missing client name"))
			continue
		}

		date, ok := rowfn.Date(pick(row, "date"))
		if !ok {
			if opts.StrictDates {
				result.Errors = append(result.Errors, rowErr(i, "unparseable date %q", pick(row, "date")))
				continue
			}
			date = now
		}
		date = truncateToDay(date)

		impressions := rowfn.Int(pick(row, "impressions"))
		engagements := rowfn.Int(pick(row, "engagements"))
		urlClicks := rowfn.Int(pick(row, "url clicks", "urlclicks"))
		profileClicks := rowfn.Int(pick(row, "profile clicks", "profileclicks"))

		clicks := urlClicks
		if clicks == 0 {
			clicks = profileClicks
		}

		result.Rows = append(result.Rows, i)
		result.Records = append(result.Records, AgencyDailyRecord{
			ClientName: clientName,
			Record: analyticsdomain.DailyAnalytics{
				Date:             date,
				Impressions:      impressions,
				Engagements:      engagements,
				Retweets:         rowfn.Int(pick(row, "retweets")),
				Replies:          rowfn.Int(pick(row, "replies")),
				Likes:            rowfn.Int(pick(row, "likes")),
				ProfileClicks:    profileClicks,
				URLClicks:        urlClicks,
				HashtagClicks:    rowfn.Int(pick(row, "hashtag clicks", "hashtagclicks")),
				DetailExpands:    rowfn.Int(pick(row, "detail expands", "detailexpands")),
				PermalinkClicks:  rowfn.Int(pick(row, "permalink clicks", "permalinkclicks")),
				Follows:          rowfn.Int(pick(row, "follows")),
				MediaViews:       rowfn.Int(pick(row, "media views", "mediaviews")),
				MediaEngagements: rowfn.Int(pick(row, "media engagements", "mediaengagements")),
				EngagementRate:   rowfn.Rate(float64(engagements), float64(impressions)),
				ClickThroughRate: rowfn.Rate(float64(clicks), float64(impressions)),
			},
		})
	}

	return result
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
