package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, agencyID, id snowflake.ID) (*Client, error)
	FindByName(ctx context.Context, db *gorm.DB, agencyID snowflake.ID, name string) (*Client, error)
	ListByAgency(ctx context.Context, db *gorm.DB, agencyID snowflake.ID) ([]*Client, error)
	UpdateTimezone(ctx context.Context, db *gorm.DB, id snowflake.ID, timezone string) error
}
