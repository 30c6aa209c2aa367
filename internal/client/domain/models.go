package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Client is a managed account an agency drafts content for. The ingestion
// core only reads clients (existence lookup by name) and writes back the
// timezone inferred from a posts import.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	AgencyID  snowflake.ID `gorm:"not null;uniqueIndex:idx_clients_agency_name" json:"agency_id"`
	Name      string       `gorm:"not null;uniqueIndex:idx_clients_agency_name" json:"name"`
	Timezone  string       `json:"timezone,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

var (
	ErrInvalidAgency = errors.New("invalid_agency")
	ErrInvalidName   = errors.New("invalid_name")
	ErrNotFound      = errors.New("client_not_found")
)
