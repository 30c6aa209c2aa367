package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// UploadBatch is one file-import attempt. Created when the file arrives,
// finalized exactly once with counts; the core never deletes batches.
type UploadBatch struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	AgencyID     snowflake.ID                `gorm:"not null;index" json:"agency_id"`
	ClientID     snowflake.ID                `gorm:"index" json:"client_id,omitempty"`
	Filename     string                      `json:"filename,omitempty"`
	Format       string                      `json:"format,omitempty"`
	Processed    bool                        `gorm:"not null;default:false" json:"processed"`
	CreatedRows  int                         `gorm:"not null;default:0" json:"created_rows"`
	UpdatedRows  int                         `gorm:"not null;default:0" json:"updated_rows"`
	SkippedRows  int                         `gorm:"not null;default:0" json:"skipped_rows"`
	Timezone     string                      `json:"timezone,omitempty"`
	RowErrors    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"row_errors,omitempty"`
	CreatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	FinalizedAt  *time.Time                  `json:"finalized_at,omitempty"`
}

// FinalizeParams carries the one-shot completion update.
type FinalizeParams struct {
	Format      string
	CreatedRows int
	UpdatedRows int
	SkippedRows int
	Timezone    string
	RowErrors   []string
}

var (
	ErrInvalidAgency = errors.New("invalid_agency")
	ErrNotFound      = errors.New("upload_not_found")
)
