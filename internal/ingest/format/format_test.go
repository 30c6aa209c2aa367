package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableFrom(t *testing.T, headers []string) *Table {
	t.Helper()
	table, err := NewTable([][]string{headers})
	require.NoError(t, err)
	return table
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    Format
	}{
		{
			"typefully tweet export",
			[]string{"tweet_id", "created_at", "text", "impression_count"},
			TypefullyTweets,
		},
		{
			"typefully detection is case-insensitive",
			[]string{"Tweet_ID", "Created_At", "Text"},
			TypefullyTweets,
		},
		{
			"followers export",
			[]string{"Date Range", "Followers"},
			Followers,
		},
		{
			"posts workflow export",
			[]string{"Date", "Topic Outline", "Tweet Text", "Typefully Draft Link", "Time (GMT +8)", "Approval", "Status"},
			PostsWorkflow,
		},
		{
			"agency analytics title case",
			[]string{"Client Name", "Date", "Impressions", "Engagements"},
			AgencyAnalytics,
		},
		{
			"agency analytics camel case",
			[]string{"clientName", "date", "impressions"},
			AgencyAnalytics,
		},
		{
			"anything else is the legacy twitter export",
			[]string{"Date", "Impressions", "Likes", "Engagements"},
			TwitterLegacy,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(tableFrom(t, tc.headers)))
		})
	}
}

func TestTimeColumnLabel(t *testing.T) {
	table := tableFrom(t, []string{"Date", "Topic Outline", "Time (GMT +8)"})
	label, ok := TimeColumnLabel(table)
	assert.True(t, ok)
	assert.Equal(t, "GMT +8", label)

	table = tableFrom(t, []string{"Date", "Topic Outline"})
	_, ok = TimeColumnLabel(table)
	assert.False(t, ok)
}

func TestReadCSVEmptyIsFatal(t *testing.T) {
	_, err := ReadCSV([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadCSV([]byte("   \n  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadCSVStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("tweet_id,created_at\n1,2025-08-01\n")...)
	records, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "tweet_id", records[0][0])
}

func TestPostsTableSynthesizesHeaders(t *testing.T) {
	records := [][]string{
		{"August 7", "Launch thread", "Thread", "Big day!", "typefully.com/draft/abc", "14:30"},
	}
	table, err := PostsTable(records)
	require.NoError(t, err)
	assert.True(t, table.HasHeaderContaining("topic outline"))
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, "August 7", table.Row(0)["date"])
}

func TestPostsTableKeepsRealHeader(t *testing.T) {
	records := [][]string{
		{"Date", "Topic Outline", "Format", "Tweet Text", "Typefully Draft Link", "Time (GMT +8)", "Approval", "Status"},
		{"August 7", "Launch thread", "Thread", "Big day!", "typefully.com/draft/abc", "14:30", "Approved", ""},
	}
	table, err := PostsTable(records)
	require.NoError(t, err)
	label, ok := TimeColumnLabel(table)
	assert.True(t, ok)
	assert.Equal(t, "GMT +8", label)
	assert.Len(t, table.Rows, 1)
}

func TestPostsTableRejectsUnrecognizedShape(t *testing.T) {
	_, err := PostsTable([][]string{{"Foo", "Bar"}, {"baz", "qux"}})
	assert.Error(t, err)
}

func TestValidateFollowers(t *testing.T) {
	assert.NoError(t, ValidateFollowers(tableFrom(t, []string{"Date Range", "Followers"})))
	err := ValidateFollowers(tableFrom(t, []string{"Date", "Impressions"}))
	assert.ErrorContains(t, err, "unsupported followers file format")
}

func TestRowPadsShortRows(t *testing.T) {
	table, err := NewTable([][]string{
		{"a", "b", "c"},
		{"1", "2"},
	})
	require.NoError(t, err)
	row := table.Row(0)
	assert.Equal(t, "2", row["b"])
	assert.Equal(t, "", row["c"])
}
