package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elementlead/PbimageS/internal/models"
	"github.com/Elementlead/PbimageS/internal/pkg/ulid"
)

func TestMemoryUserRepositoryDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: "a@example.com"}))

	err := repo.Create(ctx, &models.User{Username: "ALICE", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.Create(ctx, &models.User{Username: "bob", Email: "A@Example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	user, err := repo.GetByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestMemoryImageRepositoryScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryImageRepository()

	owner := uuid.New()
	stranger := uuid.New()

	private := true
	public := false

	for _, img := range []*models.Image{
		{ID: ulid.New(), UserID: owner, IsPrivate: false},
		{ID: ulid.New(), UserID: owner, IsPrivate: true},
		{ID: ulid.New(), UserID: stranger, IsPrivate: false},
	} {
		require.NoError(t, repo.Create(ctx, img))
	}

	all, err := repo.ListByOwner(ctx, owner, nil, 100)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	priv, err := repo.ListByOwner(ctx, owner, &private, 100)
	require.NoError(t, err)
	require.Len(t, priv, 1)
	assert.True(t, priv[0].IsPrivate)

	pub, err := repo.ListByOwner(ctx, owner, &public, 100)
	require.NoError(t, err)
	require.Len(t, pub, 1)
	assert.False(t, pub[0].IsPrivate)
}

func TestMemoryImageRepositoryDeleteIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryImageRepository()

	owner := uuid.New()
	id := ulid.New()
	require.NoError(t, repo.Create(ctx, &models.Image{ID: id, UserID: owner}))

	err := repo.Delete(ctx, uuid.New(), id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, owner, id))
	assert.ErrorIs(t, repo.Delete(ctx, owner, id), ErrNotFound)
}
