package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DailyAnalytics is the day-granularity record. Exactly one row exists per
// (client, date); re-imports with overlapping ranges replace, never
// duplicate.
type DailyAnalytics struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID snowflake.ID `gorm:"not null;uniqueIndex:idx_daily_client_date" json:"client_id"`
	UploadID snowflake.ID `gorm:"index" json:"upload_id"`
	Date     time.Time    `gorm:"not null;uniqueIndex:idx_daily_client_date" json:"date"`

	Impressions      int `gorm:"not null;default:0" json:"impressions"`
	Engagements      int `gorm:"not null;default:0" json:"engagements"`
	Likes            int `gorm:"not null;default:0" json:"likes"`
	Retweets         int `gorm:"not null;default:0" json:"retweets"`
	Replies          int `gorm:"not null;default:0" json:"replies"`
	URLClicks        int `gorm:"not null;default:0" json:"url_clicks"`
	ProfileClicks    int `gorm:"not null;default:0" json:"profile_clicks"`
	HashtagClicks    int `gorm:"not null;default:0" json:"hashtag_clicks"`
	DetailExpands    int `gorm:"not null;default:0" json:"detail_expands"`
	PermalinkClicks  int `gorm:"not null;default:0" json:"permalink_clicks"`
	Follows          int `gorm:"not null;default:0" json:"follows"`
	Unfollows        int `gorm:"not null;default:0" json:"unfollows"`
	Bookmarks        int `gorm:"not null;default:0" json:"bookmarks"`
	Shares           int `gorm:"not null;default:0" json:"shares"`
	VideoViews       int `gorm:"not null;default:0" json:"video_views"`
	MediaViews       int `gorm:"not null;default:0" json:"media_views"`
	MediaEngagements int `gorm:"not null;default:0" json:"media_engagements"`

	EngagementRate   float64 `gorm:"not null;default:0" json:"engagement_rate"`
	ClickThroughRate float64 `gorm:"not null;default:0" json:"click_through_rate"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (DailyAnalytics) TableName() string { return "daily_analytics" }

// TweetAnalytics is the per-tweet record and the system's native upsert
// unit: re-import updates in place by (client, tweet id).
type TweetAnalytics struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID snowflake.ID `gorm:"not null;uniqueIndex:idx_tweet_client_tweet" json:"client_id"`
	UploadID snowflake.ID `gorm:"index" json:"upload_id"`
	TweetID  string       `gorm:"not null;uniqueIndex:idx_tweet_client_tweet" json:"tweet_id"`

	PostedAt time.Time `json:"posted_at"`
	Text     string    `gorm:"size:2000" json:"text"`
	URL      string    `json:"url"`

	RetweetCount     int `gorm:"not null;default:0" json:"retweet_count"`
	ReplyCount       int `gorm:"not null;default:0" json:"reply_count"`
	LikeCount        int `gorm:"not null;default:0" json:"like_count"`
	QuoteCount       int `gorm:"not null;default:0" json:"quote_count"`
	ImpressionCount  int `gorm:"not null;default:0" json:"impression_count"`
	ProfileClicks    int `gorm:"not null;default:0" json:"profile_clicks"`
	BookmarkCount    int `gorm:"not null;default:0" json:"bookmark_count"`
	URLLinkClicks    int `gorm:"not null;default:0" json:"url_link_clicks"`
	TotalEngagements int `gorm:"not null;default:0" json:"total_engagements"`

	EngagementRate float64 `gorm:"not null;default:0" json:"engagement_rate"`

	IsThreadHead       bool `gorm:"not null;default:false" json:"is_thread_head"`
	IsThreadPart       bool `gorm:"not null;default:false" json:"is_thread_part"`
	IsNoteTweet        bool `gorm:"not null;default:false" json:"is_note_tweet"`
	ConversationLength int  `gorm:"not null;default:0" json:"conversation_length"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TweetAnalytics) TableName() string { return "tweet_analytics" }

// FollowerAnalytics covers one export date range. FollowersGained is the
// delta from the chronologically preceding row of the same import.
type FollowerAnalytics struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID  snowflake.ID `gorm:"not null;uniqueIndex:idx_followers_client_range" json:"client_id"`
	UploadID  snowflake.ID `gorm:"index" json:"upload_id"`
	StartDate time.Time    `gorm:"not null;uniqueIndex:idx_followers_client_range" json:"start_date"`
	EndDate   time.Time    `gorm:"not null;uniqueIndex:idx_followers_client_range" json:"end_date"`

	FollowerCount   int `gorm:"not null;default:0" json:"follower_count"`
	FollowersGained int `gorm:"not null;default:0" json:"followers_gained"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (FollowerAnalytics) TableName() string { return "follower_analytics" }

var (
	ErrMissingTweetID = errors.New("missing_tweet_id")
)
