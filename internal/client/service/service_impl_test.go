package service

import (
	"context"
	"strings"
	"testing"

	"github.com/approvly/approvly/internal/agencyctx"
	"github.com/approvly/approvly/internal/client/domain"
	"github.com/approvly/approvly/internal/client/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	ctx := agencyctx.WithAgencyID(context.Background(), node.Generate())
	return svc, ctx
}

func TestResolveByNameCaseInsensitive(t *testing.T) {
	svc, ctx := newService(t)

	created, err := svc.Create(ctx, domain.CreateClientRequest{Name: "Acme Corp"})
	require.NoError(t, err)

	for _, name := range []string{"Acme Corp", "acme corp", "  ACME CORP  "} {
		got, err := svc.ResolveByName(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, created.ID, got.ID)
	}

	_, err = svc.ResolveByName(ctx, "Globex")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveByNameScopedToAgency(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.Create(ctx, domain.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)

	otherAgency := agencyctx.WithAgencyID(context.Background(), snowflake.ID(999))
	_, err = svc.ResolveByName(otherAgency, "Acme")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetTimezone(t *testing.T) {
	svc, ctx := newService(t)

	created, err := svc.Create(ctx, domain.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.SetTimezone(ctx, created.ID, "GMT +8"))
	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "GMT +8", got.Timezone)

	// A blank label never clobbers the stored value.
	require.NoError(t, svc.SetTimezone(ctx, created.ID, "  "))
	got, err = svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "GMT +8", got.Timezone)
}

func TestCreateValidation(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.Create(ctx, domain.CreateClientRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), domain.CreateClientRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidAgency)
}
