package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a test Redis instance using miniredis
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		s.Close()
	})

	return s, client
}

func TestNewResponseCache(t *testing.T) {
	_, client := setupTestRedis(t)

	ttl := 5 * time.Minute
	cache := NewResponseCache(client, ttl, "1700000000", nil)

	assert.NotNil(t, cache)
	assert.Equal(t, client, cache.redis)
	assert.Equal(t, ttl, cache.ttl)
	assert.Equal(t, CacheStats{}, cache.GetStats())
	assert.Equal(t, "indexcast:1700000000:", cache.prefix)
}

func TestResponseCache_SetGet(t *testing.T) {
	s, client := setupTestRedis(t)
	cache := NewResponseCache(client, 5*time.Minute, "v1", nil)
	ctx := context.Background()

	key := cache.Key("history", "nifty 50", "2024-01-01", "")
	payload := []byte(`{"data":[]}`)
	cache.Set(ctx, key, payload)

	got, found := cache.Get(ctx, key)
	assert.True(t, found)
	assert.Equal(t, payload, got)

	assert.True(t, s.Exists("indexcast:v1:history:8:nifty 50|10:2024-01-01|0:"))
	assert.Equal(t, 5*time.Minute, s.TTL("indexcast:v1:history:8:nifty 50|10:2024-01-01|0:"))

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, float64(100), stats.HitRate())
}

func TestResponseCache_Miss(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewResponseCache(client, time.Minute, "v1", nil)

	got, found := cache.Get(context.Background(), "predict:nifty 50|7")
	assert.False(t, found)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), cache.GetStats().Misses)
}

func TestResponseCache_Expiry(t *testing.T) {
	s, client := setupTestRedis(t)
	cache := NewResponseCache(client, time.Minute, "v1", nil)
	ctx := context.Background()

	cache.Set(ctx, "indices:", []byte(`{"indices":[]}`))
	s.FastForward(2 * time.Minute)

	_, found := cache.Get(ctx, "indices:")
	assert.False(t, found)
}

func TestResponseCache_RedisDown(t *testing.T) {
	s, client := setupTestRedis(t)
	var buf bytes.Buffer
	logger := logging.NewStandardLoggerWithWriter(&buf, "debug", "test")
	cache := NewResponseCache(client, time.Minute, "v1", logger)
	ctx := context.Background()

	s.Close()

	cache.Set(ctx, "indices:", []byte(`{}`))
	_, found := cache.Get(ctx, "indices:")
	assert.False(t, found)

	stats := cache.GetStats()
	assert.Equal(t, int64(2), stats.Errors)
	assert.Equal(t, int64(0), stats.Sets)
	assert.Contains(t, buf.String(), "Redis get failed")
}

func TestResponseCache_NamespaceIsolation(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	older := NewResponseCache(client, time.Minute, "a", nil)
	newer := NewResponseCache(client, time.Minute, "b", nil)

	older.Set(ctx, "indices:", []byte(`{"indices":["old"]}`))
	_, found := newer.Get(ctx, "indices:")
	assert.False(t, found)
}

func TestResponseCache_Clear(t *testing.T) {
	s, client := setupTestRedis(t)
	ctx := context.Background()
	cache := NewResponseCache(client, time.Minute, "v1", nil)

	cache.Set(ctx, "indices:", []byte(`{}`))
	cache.Set(ctx, "predict:nifty 50|7", []byte(`{}`))
	require.NoError(t, s.Set("other:key", "keep"))

	removed, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, s.Exists("other:key"))

	removed, err = cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestResponseCache_KeyNoCollision(t *testing.T) {
	var cache *ResponseCache

	assert.Equal(t, "predict:8:nifty 50|1:7", cache.Key("predict", "nifty 50", "7"))
	assert.NotEqual(t,
		cache.Key("history", "a|b", "c"),
		cache.Key("history", "a", "b|c"),
	)
	assert.NotEqual(t,
		cache.Key("history", "x", ""),
		cache.Key("history", "x|0:"),
	)
}

func TestResponseCache_ResetStats(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	cache := NewResponseCache(client, time.Minute, "v1", nil)

	cache.Set(ctx, "indices:", []byte(`{}`))
	cache.Get(ctx, "indices:")
	cache.Get(ctx, "missing")
	require.Equal(t, CacheStats{Hits: 1, Misses: 1, Sets: 1}, cache.GetStats())

	cache.ResetStats()
	assert.Equal(t, CacheStats{}, cache.GetStats())
	assert.Zero(t, cache.GetStats().HitRate())
}

func TestResponseCache_Nil(t *testing.T) {
	var cache *ResponseCache
	ctx := context.Background()

	assert.NotPanics(t, func() {
		cache.Set(ctx, "k", []byte("v"))
	})
	_, found := cache.Get(ctx, "k")
	assert.False(t, found)
	assert.Equal(t, CacheStats{}, cache.GetStats())

	n, err := cache.Clear(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NotPanics(t, cache.ResetStats)
}
