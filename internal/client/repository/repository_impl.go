package repository

import (
	"context"
	"strings"
	"time"

	"github.com/approvly/approvly/internal/client/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, agencyID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		Where("agency_id = ? AND id = ?", agencyID, id).
		First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, agencyID snowflake.ID, name string) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		Where("agency_id = ? AND LOWER(name) = ?", agencyID, strings.ToLower(strings.TrimSpace(name))).
		First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repo) ListByAgency(ctx context.Context, db *gorm.DB, agencyID snowflake.ID) ([]*domain.Client, error) {
	var clients []*domain.Client
	err := db.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("name asc").
		Find(&clients).Error
	return clients, err
}

func (r *repo) UpdateTimezone(ctx context.Context, db *gorm.DB, id snowflake.ID, timezone string) error {
	return db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"timezone":   timezone,
			"updated_at": time.Now().UTC(),
		}).Error
}
