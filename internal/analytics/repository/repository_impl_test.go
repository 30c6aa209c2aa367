package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/approvly/approvly/internal/analytics/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.DailyAnalytics{},
		&domain.TweetAnalytics{},
		&domain.FollowerAnalytics{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func TestUpsertTweet(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()
	clientID := node.Generate()

	first := &domain.TweetAnalytics{
		ID:              node.Generate(),
		ClientID:        clientID,
		TweetID:         "42",
		Text:            "original",
		ImpressionCount: 100,
	}
	outcome, err := repo.UpsertTweet(ctx, db, first)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)

	second := &domain.TweetAnalytics{
		ID:              node.Generate(),
		ClientID:        clientID,
		TweetID:         "42",
		Text:            "edited",
		ImpressionCount: 250,
	}
	outcome, err = repo.UpsertTweet(ctx, db, second)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)
	// The update reuses the original row identity.
	assert.Equal(t, first.ID, second.ID)

	var records []domain.TweetAnalytics
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "edited", records[0].Text)
	assert.Equal(t, 250, records[0].ImpressionCount)
}

func TestUpsertTweetMissingID(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()

	outcome, err := repo.UpsertTweet(context.Background(), db, &domain.TweetAnalytics{
		ID:       node.Generate(),
		ClientID: node.Generate(),
		TweetID:  "  ",
	})
	assert.ErrorIs(t, err, domain.ErrMissingTweetID)
	assert.Equal(t, domain.OutcomeSkipped, outcome)
}

func TestUpsertTweetScopedByClient(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	a := &domain.TweetAnalytics{ID: node.Generate(), ClientID: node.Generate(), TweetID: "42"}
	b := &domain.TweetAnalytics{ID: node.Generate(), ClientID: node.Generate(), TweetID: "42"}

	outcome, err := repo.UpsertTweet(ctx, db, a)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)

	// Same tweet ID under a different client is a distinct record.
	outcome, err = repo.UpsertTweet(ctx, db, b)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)
}

func TestReplaceDailyRange(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()
	clientID := node.Generate()
	oldUpload := node.Generate()
	newUpload := node.Generate()

	day := func(d int) time.Time {
		return time.Date(2025, time.August, d, 0, 0, 0, 0, time.UTC)
	}

	for d := 1; d <= 3; d++ {
		_, err := repo.UpsertDaily(ctx, db, &domain.DailyAnalytics{
			ID:       node.Generate(),
			ClientID: clientID,
			UploadID: oldUpload,
			Date:     day(d),
		})
		require.NoError(t, err)
	}
	// A row belonging to the new upload inside the window survives.
	_, err := repo.UpsertDaily(ctx, db, &domain.DailyAnalytics{
		ID:       node.Generate(),
		ClientID: clientID,
		UploadID: newUpload,
		Date:     day(4),
	})
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceDailyRange(ctx, db, clientID, newUpload, day(2), day(4)))

	records, err := repo.ListDailyByClient(ctx, db, clientID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, day(1), records[0].Date.UTC())
	assert.Equal(t, day(4), records[1].Date.UTC())
}

func TestUpsertFollowersByRange(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()
	clientID := node.Generate()

	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC)

	outcome, err := repo.UpsertFollowers(ctx, db, &domain.FollowerAnalytics{
		ID:            node.Generate(),
		ClientID:      clientID,
		StartDate:     start,
		EndDate:       end,
		FollowerCount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)

	outcome, err = repo.UpsertFollowers(ctx, db, &domain.FollowerAnalytics{
		ID:            node.Generate(),
		ClientID:      clientID,
		StartDate:     start,
		EndDate:       end,
		FollowerCount: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)

	var records []domain.FollowerAnalytics
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, 120, records[0].FollowerCount)
}
