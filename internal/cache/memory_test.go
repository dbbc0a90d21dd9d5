package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainchat-labs/txengine/internal/cache"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	value, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := cache.NewMemoryCache()
	_, ok, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", -time.Second))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCachePurge(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "live", "v", time.Minute))
	require.NoError(t, c.Set(ctx, "dead1", "v", -time.Second))
	require.NoError(t, c.Set(ctx, "dead2", "v", -time.Second))

	assert.Equal(t, 2, c.Purge())

	_, ok, err := c.Get(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)
}
