package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the approval state of a drafted post.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusApproved       Status = "APPROVED"
	StatusRejected       Status = "REJECTED"
	StatusSuggestChanges Status = "SUGGEST_CHANGES"
	StatusPublished      Status = "PUBLISHED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSuggestChanges, StatusPublished:
		return true
	}
	return false
}

// PostDraft is one drafted post. The typefully URL is the identity a
// re-import matches on; a row without one is not a post.
type PostDraft struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID     snowflake.ID `gorm:"not null;uniqueIndex:idx_posts_client_url" json:"client_id"`
	UploadID     snowflake.ID `gorm:"index" json:"upload_id"`
	TypefullyURL string       `gorm:"not null;uniqueIndex:idx_posts_client_url" json:"typefully_url"`

	Content       string     `gorm:"size:1000" json:"content"`
	Format        string     `json:"format,omitempty"`
	TweetText     string     `gorm:"size:4000" json:"tweet_text,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Status        Status     `gorm:"not null;default:PENDING" json:"status"`

	// Feedback is authored downstream of the CSV (by the client in the
	// approval UI) and must survive re-imports of the same spreadsheet.
	Feedback string `gorm:"size:4000" json:"feedback,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PostDraft) TableName() string { return "post_drafts" }

var (
	ErrMissingURL    = errors.New("missing_typefully_url")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("post_not_found")
)
