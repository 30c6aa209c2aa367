package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	clientdomain "github.com/approvly/approvly/internal/client/domain"
	"github.com/approvly/approvly/internal/post/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&clientdomain.Client{}, &domain.PostDraft{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func TestUpsertCreateThenUpdate(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()
	clientID := node.Generate()

	first := &domain.PostDraft{
		ID:           node.Generate(),
		ClientID:     clientID,
		TypefullyURL: "https://typefully.com/t/abc",
		Content:      "draft one",
		Status:       domain.StatusPending,
	}
	outcome, err := repo.Upsert(ctx, db, first)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome)

	second := &domain.PostDraft{
		ID:           node.Generate(),
		ClientID:     clientID,
		TypefullyURL: "https://typefully.com/t/abc",
		Content:      "draft two",
		Status:       domain.StatusApproved,
	}
	outcome, err = repo.Upsert(ctx, db, second)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)

	var posts []domain.PostDraft
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, "draft two", posts[0].Content)
	assert.Equal(t, domain.StatusApproved, posts[0].Status)
	assert.Equal(t, first.ID, posts[0].ID)
}

func TestUpsertPreservesFeedback(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()
	clientID := node.Generate()

	_, err := repo.Upsert(ctx, db, &domain.PostDraft{
		ID:           node.Generate(),
		ClientID:     clientID,
		TypefullyURL: "https://typefully.com/t/abc",
		Status:       domain.StatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.PostDraft{}).
		Where("typefully_url = ?", "https://typefully.com/t/abc").
		Update("feedback", "shorten the hook").Error)

	// The re-imported row carries no feedback; the stored value wins.
	incoming := &domain.PostDraft{
		ID:           node.Generate(),
		ClientID:     clientID,
		TypefullyURL: "https://typefully.com/t/abc",
		Content:      "revised",
		Status:       domain.StatusApproved,
	}
	outcome, err := repo.Upsert(ctx, db, incoming)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, outcome)
	assert.Equal(t, "shorten the hook", incoming.Feedback)

	var post domain.PostDraft
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "shorten the hook", post.Feedback)
	assert.Equal(t, "revised", post.Content)
}

func TestUpsertMissingURL(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()

	outcome, err := repo.Upsert(context.Background(), db, &domain.PostDraft{
		ID:       node.Generate(),
		ClientID: node.Generate(),
	})
	assert.ErrorIs(t, err, domain.ErrMissingURL)
	assert.Equal(t, domain.OutcomeSkipped, outcome)
}

func TestUpdateReview(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	post := &domain.PostDraft{
		ID:           node.Generate(),
		ClientID:     node.Generate(),
		TypefullyURL: "https://typefully.com/t/abc",
		Status:       domain.StatusPending,
	}
	_, err := repo.Upsert(ctx, db, post)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateReview(ctx, db, post.ID, domain.StatusSuggestChanges, "tighten paragraph 2"))

	var stored domain.PostDraft
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, domain.StatusSuggestChanges, stored.Status)
	assert.Equal(t, "tighten paragraph 2", stored.Feedback)

	assert.ErrorIs(t, repo.UpdateReview(ctx, db, post.ID, "BOGUS", ""), domain.ErrInvalidStatus)
}

func TestListByAgency(t *testing.T) {
	db, node := newTestDB(t)
	repo := Provide()
	ctx := context.Background()

	agencyID := node.Generate()
	client := clientdomain.Client{
		ID:       node.Generate(),
		AgencyID: agencyID,
		Name:     "Acme",
	}
	other := clientdomain.Client{
		ID:       node.Generate(),
		AgencyID: node.Generate(),
		Name:     "Globex",
	}
	require.NoError(t, db.Create(&client).Error)
	require.NoError(t, db.Create(&other).Error)

	when := time.Date(2025, time.August, 6, 6, 30, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, db, &domain.PostDraft{
		ID:            node.Generate(),
		ClientID:      client.ID,
		TypefullyURL:  "https://typefully.com/t/abc",
		ScheduledDate: &when,
		Status:        domain.StatusPending,
	})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, db, &domain.PostDraft{
		ID:           node.Generate(),
		ClientID:     other.ID,
		TypefullyURL: "https://typefully.com/t/xyz",
		Status:       domain.StatusPending,
	})
	require.NoError(t, err)

	posts, err := repo.ListByAgency(ctx, db, agencyID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, client.ID, posts[0].ClientID)
}
