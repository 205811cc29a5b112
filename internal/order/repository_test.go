package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first := New(Params{UserID: 1})
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, int64(1), first.ID())

	second := New(Params{UserID: 2})
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, int64(2), second.ID())

	got, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = repo.GetByID(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Save(ctx, got))
	assert.ErrorIs(t, repo.Save(ctx, New(Params{ID: 40})), ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID())
}

func TestMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	o := New(Params{UserID: 1})
	require.NoError(t, repo.Create(ctx, o))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(productID int64) {
			defer wg.Done()
			_, err := repo.Update(ctx, o.ID(), func(o *Order) error {
				_, err := o.AddProduct(productID, "P", "SKU", 1, dec("1"))
				return err
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, o.ID())
	require.NoError(t, err)
	require.Len(t, got.Items(), 20)
	seen := map[int64]bool{}
	for _, it := range got.Items() {
		seen[it.ID] = true
	}
	assert.Len(t, seen, 20, "item ids are unique")

	boom := errors.New("boom")
	_, err = repo.Update(ctx, o.ID(), func(o *Order) error {
		require.NoError(t, o.Transition(StatusConfirmed, time.Time{}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, err = repo.GetByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status(), "failed update is discarded")

	_, err = repo.Update(ctx, 99, func(*Order) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}
