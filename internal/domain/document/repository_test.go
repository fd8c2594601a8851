package document

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SaveAndFind(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	doc := &Document{
		ID:          "7f1c0000-0000-0000-0000-000000000001",
		Owner:       "alice",
		DisplayName: "a.pdf",
		UploadedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, doc))

	got, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "a.pdf", got.DisplayName)
	assert.False(t, got.Seen)
	assert.True(t, doc.UploadedAt.Equal(got.UploadedAt))
}

func TestRepository_FindByIDMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	got, err := repo.FindByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_SaveExistingOnlyUpdatesSeen(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	uploaded := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &Document{ID: "doc-1", Owner: "alice", DisplayName: "a.pdf", UploadedAt: uploaded}))

	require.NoError(t, repo.Save(ctx, &Document{
		ID:          "doc-1",
		Owner:       "mallory",
		DisplayName: "evil.pdf",
		UploadedAt:  uploaded.Add(time.Hour),
		Seen:        true,
	}))

	got, err := repo.FindByID(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, got.Seen)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "a.pdf", got.DisplayName)
	assert.True(t, uploaded.Equal(got.UploadedAt))
}

func TestRepository_FindByOwnerNewestFirst(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, &Document{ID: "old", Owner: "alice", DisplayName: "old.pdf", UploadedAt: base}))
	require.NoError(t, repo.Save(ctx, &Document{ID: "new", Owner: "alice", DisplayName: "new.pdf", UploadedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Save(ctx, &Document{ID: "other", Owner: "bob", DisplayName: "b.pdf", UploadedAt: base}))

	docs, err := repo.FindByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[1].ID)

	none, err := repo.FindByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRepository_ListIDs(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.Save(ctx, &Document{ID: "a", Owner: "alice", DisplayName: "a.pdf", UploadedAt: time.Now()}))
	require.NoError(t, repo.Save(ctx, &Document{ID: "b", Owner: "bob", DisplayName: "b.pdf", UploadedAt: time.Now()}))

	ids, err = repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
