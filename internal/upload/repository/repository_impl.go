package repository

import (
	"context"
	"time"

	"github.com/approvly/approvly/internal/upload/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, batch *domain.UploadBatch) error {
	return db.WithContext(ctx).Create(batch).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, agencyID, id snowflake.ID) (*domain.UploadBatch, error) {
	var batch domain.UploadBatch
	err := db.WithContext(ctx).
		Where("agency_id = ? AND id = ?", agencyID, id).
		First(&batch).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

func (r *repo) Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID, params domain.FinalizeParams) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"processed":    true,
		"format":       params.Format,
		"created_rows": params.CreatedRows,
		"updated_rows": params.UpdatedRows,
		"skipped_rows": params.SkippedRows,
		"row_errors":   datatypes.NewJSONSlice(params.RowErrors),
		"updated_at":   now,
		"finalized_at": now,
	}
	if params.Timezone != "" {
		updates["timezone"] = params.Timezone
	}
	return db.WithContext(ctx).
		Model(&domain.UploadBatch{}).
		Where("id = ?", id).
		Updates(updates).Error
}
