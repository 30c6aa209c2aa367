package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateClientRequest struct {
	Name     string
	Timezone string
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (Client, error)
	GetByID(ctx context.Context, id snowflake.ID) (Client, error)
	// ResolveByName finds a client by display name within the agency in
	// context. Lookup is case-insensitive on the trimmed name.
	ResolveByName(ctx context.Context, name string) (Client, error)
	List(ctx context.Context) ([]Client, error)
	// SetTimezone overwrites the client's stored timezone label, the side
	// effect of a successful posts import that inferred one.
	SetTimezone(ctx context.Context, id snowflake.ID, timezone string) error
}
