package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ApplyResult summarizes a status/feedback write-back from an uploaded
// workbook. Row failures accumulate; the apply never hard-fails per row.
type ApplyResult struct {
	Success      bool     `json:"success"`
	UpdatedPosts int      `json:"updated_posts"`
	SkippedRows  int      `json:"skipped_rows"`
	Errors       []string `json:"errors,omitempty"`
}

// Service renders stored records back to spreadsheet form and applies the
// inverse: a reviewed workbook updating post status and feedback.
type Service interface {
	// PostsReport renders the client's drafts as a single "Posts Report"
	// sheet.
	PostsReport(ctx context.Context, clientID snowflake.ID) ([]byte, error)

	// ClientWorkbook renders a two-sheet workbook: "Posts" plus "Analytics"
	// with the daily records.
	ClientWorkbook(ctx context.Context, clientID snowflake.ID) ([]byte, error)

	// ApplyWorkbook re-parses an uploaded workbook and writes status and
	// feedback back onto existing posts matched by typefully URL and client
	// name within the agency in context.
	ApplyWorkbook(ctx context.Context, data []byte) (ApplyResult, error)
}

var (
	ErrInvalidAgency = errors.New("invalid_agency")
	ErrNoPosts       = errors.New("no_posts_for_client")
)
