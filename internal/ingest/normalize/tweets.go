package normalize

import (
	"time"

	analyticsdomain "github.com/approvly/approvly/internal/analytics/domain"
	"github.com/approvly/approvly/internal/ingest/format"
	"github.com/approvly/approvly/internal/ingest/rowfn"
)

// TweetsResult holds the typed tweet records plus per-row errors. Client
// and upload IDs are stamped by the orchestrator.
type TweetsResult struct {
	Records []analyticsdomain.TweetAnalytics
	// Rows holds the source data-row index of each record, for error
	// reporting during persistence.
	Rows   []int
	Errors []string
}

// Tweets normalizes a Typefully tweet export.
func Tweets(table *format.Table, opts Options, now time.Time) TweetsResult {
	var result TweetsResult

	for i := range table.Rows {
		row := table.Row(i)

		tweetID := row["tweet_id"]
		if tweetID == "" {
			result.Errors = append(result.Errors, rowErr(i, "missing tweet_id"))
			continue
		}

		postedAt, ok := rowfn.Date(row["created_at"])
		if !ok {
			if opts.StrictDates {
				result.Errors = append(result.Errors, rowErr(i, "unparseable created_at %q", row["created_at"]))
				continue
			}
			postedAt = now
		}

		impressions := rowfn.Int(row["impression_count"])
		engagements := rowfn.Int(row["total_engagements"])

		rate := rowfn.Float(row["engagement_rate"])
		if rate == 0 {
			rate = rowfn.Rate(float64(engagements), float64(impressions))
		}
		if rate > 1 {
			rate = 1
		}

		result.Rows = append(result.Rows, i)
		result.Records = append(result.Records, analyticsdomain.TweetAnalytics{
			TweetID:            tweetID,
			PostedAt:           postedAt,
			Text:               row["text"],
			URL:                row["url"],
			RetweetCount:       rowfn.Int(row["retweet_count"]),
			ReplyCount:         rowfn.Int(row["reply_count"]),
			LikeCount:          rowfn.Int(row["like_count"]),
			QuoteCount:         rowfn.Int(row["quote_count"]),
			ImpressionCount:    impressions,
			ProfileClicks:      rowfn.Int(row["user_profile_clicks"]),
			BookmarkCount:      rowfn.Int(row["bookmark_count"]),
			URLLinkClicks:      rowfn.Int(row["url_link_clicks"]),
			TotalEngagements:   engagements,
			EngagementRate:     rate,
			IsThreadHead:       rowfn.Bool(row["is_thread_head"]),
			IsThreadPart:       rowfn.Bool(row["is_thread_part"]),
			IsNoteTweet:        rowfn.Bool(row["is_note_tweet"]),
			ConversationLength: rowfn.Int(row["conversation_length"]),
		})
	}

	return result
}
