package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/approvly/approvly/internal/post/domain"
	pkgdb "github.com/approvly/approvly/pkg/db"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, rec *domain.PostDraft) (domain.Outcome, error) {
	if strings.TrimSpace(rec.TypefullyURL) == "" {
		return domain.OutcomeSkipped, domain.ErrMissingURL
	}

	existing, err := r.FindByURL(ctx, db, rec.ClientID, rec.TypefullyURL)
	if err != nil {
		return domain.OutcomeSkipped, err
	}

	if existing == nil {
		if err := db.WithContext(ctx).Create(rec).Error; err != nil {
			// Lost the race with a concurrent import of the same draft.
			if pkgdb.IsDuplicateKeyErr(err) {
				return r.Upsert(ctx, db, rec)
			}
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeCreated, nil
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	if existing.Feedback != "" {
		rec.Feedback = existing.Feedback
	}
	if err := db.WithContext(ctx).Save(rec).Error; err != nil {
		return domain.OutcomeSkipped, err
	}
	return domain.OutcomeUpdated, nil
}

func (r *repo) FindByURL(ctx context.Context, db *gorm.DB, clientID snowflake.ID, typefullyURL string) (*domain.PostDraft, error) {
	var post domain.PostDraft
	err := db.WithContext(ctx).
		Where("client_id = ? AND typefully_url = ?", clientID, typefullyURL).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *repo) ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*domain.PostDraft, error) {
	var posts []*domain.PostDraft
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("scheduled_date asc, id asc").
		Find(&posts).Error
	return posts, err
}

func (r *repo) ListByAgency(ctx context.Context, db *gorm.DB, agencyID snowflake.ID) ([]*domain.PostDraft, error) {
	var posts []*domain.PostDraft
	err := db.WithContext(ctx).
		Joins("JOIN clients ON clients.id = post_drafts.client_id").
		Where("clients.agency_id = ?", agencyID).
		Order("post_drafts.scheduled_date asc, post_drafts.id asc").
		Find(&posts).Error
	return posts, err
}

func (r *repo) UpdateReview(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, feedback string) error {
	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if status != "" {
		if !status.Valid() {
			return domain.ErrInvalidStatus
		}
		updates["status"] = status
	}
	if feedback != "" {
		updates["feedback"] = feedback
	}
	return db.WithContext(ctx).
		Model(&domain.PostDraft{}).
		Where("id = ?", id).
		Updates(updates).Error
}
