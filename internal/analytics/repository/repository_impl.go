package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/approvly/approvly/internal/analytics/domain"
	pkgdb "github.com/approvly/approvly/pkg/db"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertTweet(ctx context.Context, db *gorm.DB, rec *domain.TweetAnalytics) (domain.Outcome, error) {
	if strings.TrimSpace(rec.TweetID) == "" {
		return domain.OutcomeSkipped, domain.ErrMissingTweetID
	}

	var existing domain.TweetAnalytics
	err := db.WithContext(ctx).
		Where("client_id = ? AND tweet_id = ?", rec.ClientID, rec.TweetID).
		First(&existing).Error
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = time.Now().UTC()
		if err := db.WithContext(ctx).Save(rec).Error; err != nil {
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeUpdated, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.WithContext(ctx).Create(rec).Error; err != nil {
			// Lost the race with a concurrent import of the same tweet.
			if pkgdb.IsDuplicateKeyErr(err) {
				return r.UpsertTweet(ctx, db, rec)
			}
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeCreated, nil
	default:
		return domain.OutcomeSkipped, err
	}
}

func (r *repo) ReplaceDailyRange(ctx context.Context, db *gorm.DB, clientID, uploadID snowflake.ID, from, to time.Time) error {
	return db.WithContext(ctx).
		Where("client_id = ? AND date >= ? AND date <= ? AND upload_id <> ?", clientID, from, to, uploadID).
		Delete(&domain.DailyAnalytics{}).Error
}

func (r *repo) UpsertDaily(ctx context.Context, db *gorm.DB, rec *domain.DailyAnalytics) (domain.Outcome, error) {
	var existing domain.DailyAnalytics
	err := db.WithContext(ctx).
		Where("client_id = ? AND date = ?", rec.ClientID, rec.Date).
		First(&existing).Error
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = time.Now().UTC()
		if err := db.WithContext(ctx).Save(rec).Error; err != nil {
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeUpdated, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// OnConflict guards against a concurrent import creating the same
		// (client, date) between the check and the insert.
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "client_id"}, {Name: "date"}},
				UpdateAll: true,
			}).
			Create(rec).Error
		if err != nil {
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeCreated, nil
	default:
		return domain.OutcomeSkipped, err
	}
}

func (r *repo) UpsertFollowers(ctx context.Context, db *gorm.DB, rec *domain.FollowerAnalytics) (domain.Outcome, error) {
	var existing domain.FollowerAnalytics
	err := db.WithContext(ctx).
		Where("client_id = ? AND start_date = ? AND end_date = ?", rec.ClientID, rec.StartDate, rec.EndDate).
		First(&existing).Error
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = time.Now().UTC()
		if err := db.WithContext(ctx).Save(rec).Error; err != nil {
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeUpdated, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.WithContext(ctx).Create(rec).Error; err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return r.UpsertFollowers(ctx, db, rec)
			}
			return domain.OutcomeSkipped, err
		}
		return domain.OutcomeCreated, nil
	default:
		return domain.OutcomeSkipped, err
	}
}

func (r *repo) ListDailyByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*domain.DailyAnalytics, error) {
	var records []*domain.DailyAnalytics
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date asc").
		Find(&records).Error
	return records, err
}

func (r *repo) ListTweetsByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*domain.TweetAnalytics, error) {
	var records []*domain.TweetAnalytics
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("posted_at asc").
		Find(&records).Error
	return records, err
}
