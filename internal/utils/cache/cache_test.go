package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var out map[string]float64
	assert.ErrorIs(t, c.GetJSON(ctx, "missing", &out), ErrCacheMiss)

	require.NoError(t, c.SetJSON(ctx, "k", map[string]float64{"Egg": 3}, time.Minute))
	require.NoError(t, c.GetJSON(ctx, "k", &out))
	assert.Equal(t, 3.0, out["Egg"])

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.GetJSON(ctx, "k", &out), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &memoryCache{entries: map[string]memoryEntry{}, now: func() time.Time { return now }}

	require.NoError(t, c.SetFlag(ctx, "flag", time.Minute))
	ok, err := c.Exists(ctx, "flag")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = c.Exists(ctx, "flag")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheSweepsUnreadEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &memoryCache{entries: map[string]memoryEntry{}, now: func() time.Time { return now }}

	require.NoError(t, c.SetFlag(ctx, "revoked:a", 30*time.Second))
	require.NoError(t, c.SetFlag(ctx, "revoked:b", 30*time.Second))
	require.NoError(t, c.SetJSON(ctx, "shopping_list:u", map[string]float64{"Egg": 3}, time.Hour))
	assert.Len(t, c.entries, 3)

	now = now.Add(sweepInterval)
	require.NoError(t, c.SetFlag(ctx, "revoked:c", 30*time.Second))

	assert.Len(t, c.entries, 2)
	assert.Contains(t, c.entries, "shopping_list:u")
	assert.Contains(t, c.entries, "revoked:c")
}
