package normalize

import (
	"testing"
	"time"

	"github.com/approvly/approvly/internal/ingest/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableOf(t *testing.T, records [][]string) *format.Table {
	t.Helper()
	table, err := format.NewTable(records)
	require.NoError(t, err)
	return table
}

func TestTweetsNormalization(t *testing.T) {
	table := tableOf(t, [][]string{
		{"tweet_id", "created_at", "text", "url", "like_count", "impression_count", "total_engagements", "engagement_rate", "is_thread_head", "conversation_length"},
		{"123", "2025-08-01 10:00:00", "hello", "https://x.com/1", "10", "1000", "50", "", "true", "3"},
		{"", "2025-08-01", "no id", "", "0", "0", "0", "", "", ""},
	})

	result := Tweets(table, Options{}, testNow)
	require.Len(t, result.Records, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 3")

	rec := result.Records[0]
	assert.Equal(t, "123", rec.TweetID)
	assert.Equal(t, 1000, rec.ImpressionCount)
	assert.Equal(t, 50, rec.TotalEngagements)
	assert.InDelta(t, 0.05, rec.EngagementRate, 1e-9)
	assert.True(t, rec.IsThreadHead)
	assert.Equal(t, 3, rec.ConversationLength)
}

func TestTweetsStrictDates(t *testing.T) {
	table := tableOf(t, [][]string{
		{"tweet_id", "created_at", "text"},
		{"123", "not a date", "x"},
	})

	strict := Tweets(table, Options{StrictDates: true}, testNow)
	assert.Empty(t, strict.Records)
	require.Len(t, strict.Errors, 1)

	permissive := Tweets(table, Options{}, testNow)
	require.Len(t, permissive.Records, 1)
	assert.Equal(t, testNow, permissive.Records[0].PostedAt)
}

func TestDailyNormalization(t *testing.T) {
	table := tableOf(t, [][]string{
		{"Date", "Impressions", "Likes", "Engagements", "Replies", "Reposts", "New Follows", "Profile Visits"},
		{"2025-08-01", "2000", "40", "100", "5", "12", "3", "60"},
	})

	result := Daily(table, Options{}, testNow)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, 2000, rec.Impressions)
	assert.Equal(t, 12, rec.Retweets)
	assert.Equal(t, 3, rec.Follows)
	assert.Equal(t, 60, rec.ProfileClicks)
	assert.InDelta(t, 0.05, rec.EngagementRate, 1e-9)
	assert.InDelta(t, 0.03, rec.ClickThroughRate, 1e-9)
}

func TestAgencyDailyAcceptsBothHeaderVariants(t *testing.T) {
	titleCase := tableOf(t, [][]string{
		{"Client Name", "Date", "Impressions", "Engagements", "URL Clicks"},
		{"Acme", "2025-08-01", "1000", "50", "20"},
	})
	camelCase := tableOf(t, [][]string{
		{"clientName", "date", "impressions", "engagements", "urlClicks"},
		{"Acme", "2025-08-01", "1000", "50", "20"},
	})

	for _, table := range []*format.Table{titleCase, camelCase} {
		result := AgencyDaily(table, Options{}, testNow)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "Acme", result.Records[0].ClientName)
		assert.Equal(t, 1000, result.Records[0].Record.Impressions)
		assert.Equal(t, 20, result.Records[0].Record.URLClicks)
		assert.InDelta(t, 0.02, result.Records[0].Record.ClickThroughRate, 1e-9)
	}
}

func TestAgencyDailyMissingClientIsRowError(t *testing.T) {
	table := tableOf(t, [][]string{
		{"Client Name", "Date", "Impressions"},
		{"", "2025-08-01", "1000"},
		{"Acme", "2025-08-02", "500"},
	})

	result := AgencyDaily(table, Options{}, testNow)
	assert.Len(t, result.Records, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 2")
}

func TestFollowersGainedDelta(t *testing.T) {
	table := tableOf(t, [][]string{
		{"Date Range", "Followers"},
		{"2025-08-02 - 2025-08-08", "1000"},
		{"2025-08-09 - 2025-08-15", "1050"},
		{"2025-08-16 - 2025-08-22", "1030"},
	})

	result := Followers(table, Options{}, testNow)
	require.Len(t, result.Records, 3)
	assert.Equal(t, 0, result.Records[0].FollowersGained)
	assert.Equal(t, 50, result.Records[1].FollowersGained)
	assert.Equal(t, -20, result.Records[2].FollowersGained)
	assert.Equal(t, time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), result.Records[0].StartDate)
	assert.Equal(t, time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC), result.Records[0].EndDate)
}

func TestFollowersSkipsBlankCounts(t *testing.T) {
	table := tableOf(t, [][]string{
		{"Date Range", "Followers"},
		{"2025-08-02 - 2025-08-08", "1000"},
		{"2025-08-09 - 2025-08-15", ""},
		{"2025-08-16 - 2025-08-22", "1100"},
	})

	result := Followers(table, Options{}, testNow)
	require.Len(t, result.Records, 2)
	assert.Empty(t, result.Errors)
	// Delta spans the skipped row: previous valid count is 1000.
	assert.Equal(t, 100, result.Records[1].FollowersGained)
}

func TestFollowersSingleDateRange(t *testing.T) {
	table := tableOf(t, [][]string{
		{"Date Range", "Followers"},
		{"2025-08-02", "1000"},
	})

	result := Followers(table, Options{}, testNow)
	require.Len(t, result.Records, 1)
	assert.Equal(t, result.Records[0].StartDate, result.Records[0].EndDate)
}
