package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, batch *UploadBatch) error
	FindByID(ctx context.Context, db *gorm.DB, agencyID, id snowflake.ID) (*UploadBatch, error)
	Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID, params FinalizeParams) error
}
