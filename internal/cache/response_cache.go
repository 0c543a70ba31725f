package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/irfndi/indexcast/internal/logging"
	"github.com/redis/go-redis/v9"
)

// CacheStats is a snapshot of cache performance metrics
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	Errors int64 `json:"errors"`
}

// ResponseCache stores rendered JSON responses in Redis. A nil
// *ResponseCache is valid and behaves as an always-missing cache.
type ResponseCache struct {
	redis  *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	stats  CacheStats
	prefix string
	logger logging.Logger
}

// NewResponseCache creates a Redis-backed response cache. namespace scopes
// keys to one dataset snapshot so a reload never serves stale results.
func NewResponseCache(redisClient *redis.Client, ttl time.Duration, namespace string, logger logging.Logger) *ResponseCache {
	return &ResponseCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "indexcast:" + namespace + ":",
		logger: logger,
	}
}

// Key builds a cache key from an endpoint name and its normalized
// parameters. Each parameter is length-prefixed so separators inside a value
// cannot make two parameter lists collide.
func (c *ResponseCache) Key(endpoint string, params ...string) string {
	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte(':')
	for i, p := range params {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// Get returns the cached payload for key.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	start := time.Now()
	cacheKey := c.prefix + key

	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Cache miss
		c.record(func(s *CacheStats) { s.Misses++ })
		c.log("get", cacheKey, false, start)
		return nil, false
	}
	if err != nil {
		c.record(func(s *CacheStats) {
			s.Misses++
			s.Errors++
		})
		if c.logger != nil {
			c.logger.WithComponent("response_cache").Warn("Redis get failed",
				"key", cacheKey, "error", err)
		}
		return nil, false
	}

	// Cache hit
	c.record(func(s *CacheStats) { s.Hits++ })
	c.log("get", cacheKey, true, start)
	return data, true
}

// Set stores payload under key with the configured TTL. Failures are logged
// and otherwise ignored.
func (c *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	start := time.Now()
	cacheKey := c.prefix + key

	// Store in Redis with TTL
	if err := c.redis.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
		c.record(func(s *CacheStats) { s.Errors++ })
		if c.logger != nil {
			c.logger.WithComponent("response_cache").Warn("Redis set failed",
				"key", cacheKey, "error", err)
		}
		return
	}

	c.record(func(s *CacheStats) { s.Sets++ })
	c.log("set", cacheKey, false, start)
}

// GetStats returns current cache statistics
func (c *ResponseCache) GetStats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// ResetStats zeroes the hit, miss, set and error counters.
func (c *ResponseCache) ResetStats() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stats = CacheStats{}
	c.mu.Unlock()
}

// HitRate returns hits as a percentage of lookups.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Clear removes every entry in this cache's namespace.
func (c *ResponseCache) Clear(ctx context.Context) (int, error) {
	if c == nil {
		return 0, nil
	}
	pattern := c.prefix + "*"

	// Get all keys matching the pattern using SCAN for better performance
	var keys []string
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("error scanning cache keys: %w", err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("error clearing cache: %w", err)
	}
	return len(keys), nil
}

func (c *ResponseCache) record(update func(*CacheStats)) {
	c.mu.Lock()
	update(&c.stats)
	c.mu.Unlock()
}

func (c *ResponseCache) log(operation, key string, hit bool, start time.Time) {
	if c.logger != nil {
		c.logger.LogCacheOperation(operation, key, hit, time.Since(start).Milliseconds())
	}
}
