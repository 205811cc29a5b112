package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	seeded, err := repo.Create(ctx, New(Params{ID: 5, Username: "seed"}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), seeded.ID)

	created, err := repo.Create(ctx, New(Params{Username: "next"}))
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID, "ids continue after explicit ones")

	_, err = repo.Create(ctx, New(Params{Username: "next"}))
	assert.ErrorIs(t, err, ErrConflict)

	got, err := repo.GetByID(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "next", got.Username)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(5), all[0].ID)
	assert.Equal(t, int64(6), all[1].ID)
}

func TestMemoryRepository_Profiles(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	err := repo.SaveProfile(ctx, Profile{UserID: 1, Bio: "orphan"})
	assert.ErrorIs(t, err, ErrNotFound)

	u, err := repo.Create(ctx, New(Params{Username: "jdoe"}))
	require.NoError(t, err)

	require.NoError(t, repo.SaveProfile(ctx, Profile{UserID: u.ID, Location: "Oslo"}))
	p, err := repo.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oslo", p.Location)

	_, err = repo.GetProfile(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
