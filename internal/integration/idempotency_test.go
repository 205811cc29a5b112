package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/idempotency"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/testutil"
)

func TestRedisStore(t *testing.T) {
	testutil.RequireDocker(t)
	store := idempotency.NewRedisStore(testutil.StartRedis(t), time.Minute)
	ctx := context.Background()

	ok, err := store.TryLock(ctx, "orders", "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.TryLock(ctx, "orders", "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := store.Recall(ctx, "orders", "k1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Remember(ctx, "orders", "k1", "17"))
	val, found, err := store.Recall(ctx, "orders", "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "17", val)

	require.NoError(t, store.Release(ctx, "orders", "k2"))
	ok, err = store.TryLock(ctx, "orders", "k2")
	require.NoError(t, err)
	assert.True(t, ok)
}
