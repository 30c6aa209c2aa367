package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Outcome mirrors the analytics upsert result.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

type Repository interface {
	// Upsert matches on (clientID, typefullyURL). On update the incoming
	// record overwrites content, tweet text, schedule and status, but the
	// existing feedback is preserved.
	Upsert(ctx context.Context, db *gorm.DB, rec *PostDraft) (Outcome, error)

	FindByURL(ctx context.Context, db *gorm.DB, clientID snowflake.ID, typefullyURL string) (*PostDraft, error)
	ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*PostDraft, error)
	ListByAgency(ctx context.Context, db *gorm.DB, agencyID snowflake.ID) ([]*PostDraft, error)
	UpdateReview(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, feedback string) error
}
