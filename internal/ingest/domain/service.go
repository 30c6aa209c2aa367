package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ImportRequest carries one uploaded file targeted at a single client.
type ImportRequest struct {
	ClientID snowflake.ID
	Filename string
	Data     []byte
	// Excel marks the payload as an xlsx buffer instead of CSV text.
	Excel bool
}

// AgencyImportRequest carries an agency-wide file; each row names its
// client.
type AgencyImportRequest struct {
	Filename string
	Data     []byte
	Excel    bool
}

// ImportResult is the terminal output of an analytics-style import. The
// batch never hard-fails on individual rows; Errors carries the partial
// failures.
type ImportResult struct {
	Success          bool         `json:"success"`
	Format           string       `json:"format"`
	ProcessedRecords int          `json:"processed_records"`
	NewRecords       int          `json:"new_records"`
	UpdatedRecords   int          `json:"updated_records"`
	SkippedRecords   int          `json:"skipped_records"`
	Errors           []string     `json:"errors,omitempty"`
	UploadID         snowflake.ID `json:"upload_id"`
}

// PostsImportResult is the terminal output of a posts import.
type PostsImportResult struct {
	Success          bool         `json:"success"`
	ProcessedRecords int          `json:"processed_records"`
	SavedPosts       int          `json:"saved_posts"`
	Timezone         string       `json:"timezone,omitempty"`
	UploadID         snowflake.ID `json:"upload_id"`
	Errors           []string     `json:"errors,omitempty"`
}

// Service is the batch orchestrator: one call processes one file end to
// end (parse, normalize, persist, finalize), sequentially by design.
type Service interface {
	// ImportAnalytics detects the per-client analytics schema (Typefully
	// tweet export or legacy Twitter daily export) and ingests it.
	ImportAnalytics(ctx context.Context, req ImportRequest) (ImportResult, error)

	// ImportAgencyAnalytics ingests the multi-client daily export,
	// resolving each row's client by name within the agency in context.
	ImportAgencyAnalytics(ctx context.Context, req AgencyImportRequest) (ImportResult, error)

	// ImportFollowers ingests a followers export for one client.
	ImportFollowers(ctx context.Context, req ImportRequest) (ImportResult, error)

	// ImportPosts ingests a posts-workflow export for one client and, on
	// success, writes the inferred timezone back onto the client.
	ImportPosts(ctx context.Context, req ImportRequest) (PostsImportResult, error)
}

var (
	ErrInvalidAgency = errors.New("invalid_agency")
	ErrInvalidClient = errors.New("invalid_client")
	ErrNoValidRows   = errors.New("no valid rows")
)
