package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Outcome reports what an upsert did with a record.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

// Repository is the deduplication/upsert engine. Each method matches on the
// record's natural key; the later import is authoritative for every field
// it carries.
type Repository interface {
	// UpsertTweet matches on (clientID, tweetID) and overwrites all fields
	// on conflict. Records without a tweet ID are skipped.
	UpsertTweet(ctx context.Context, db *gorm.DB, rec *TweetAnalytics) (Outcome, error)

	// ReplaceDailyRange deletes rows for the client whose date falls inside
	// [from, to] and whose upload differs from uploadID. Runs once per
	// batch, before the per-row upserts, so overlapping re-exports cannot
	// collide with the unique (client, date) key.
	ReplaceDailyRange(ctx context.Context, db *gorm.DB, clientID, uploadID snowflake.ID, from, to time.Time) error

	// UpsertDaily matches on (clientID, date).
	UpsertDaily(ctx context.Context, db *gorm.DB, rec *DailyAnalytics) (Outcome, error)

	// UpsertFollowers matches on (clientID, startDate, endDate).
	UpsertFollowers(ctx context.Context, db *gorm.DB, rec *FollowerAnalytics) (Outcome, error)

	ListDailyByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*DailyAnalytics, error)
	ListTweetsByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*TweetAnalytics, error)
}
