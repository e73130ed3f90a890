package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	cacheKeyPrefix     = "report:cache:"
	cacheGenerationKey = "report:cache:generation"
)

// ReportCache is a bounded response cache keyed by (view, scope). Entries
// expire after the configured TTL, so the cache never grows without
// limit. Invalidation bumps a generation counter instead of scanning
// keys: stale entries become unreachable immediately and age out on
// their own TTL.
type ReportCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewReportCache creates a report cache with the given freshness window
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{redis: client, ttl: ttl}
}

// Get returns the cached payload for a view+scope, or false on a miss.
// Redis errors degrade to a miss; the core stays correct without a cache.
func (c *ReportCache) Get(ctx context.Context, view, scopeKey string) ([]byte, bool) {
	key, err := c.entryKey(ctx, view, scopeKey)
	if err != nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a payload for a view+scope under the cache TTL
func (c *ReportCache) Set(ctx context.Context, view, scopeKey string, payload []byte) error {
	key, err := c.entryKey(ctx, view, scopeKey)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Invalidate makes every cached entry unreachable. Called by the external
// sync process after it publishes a new snapshot.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if err := c.redis.Incr(ctx, cacheGenerationKey).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	return nil
}

// entryKey builds the generation-scoped cache key. The scope key is
// hashed so arbitrary filter strings stay within redis key length limits.
func (c *ReportCache) entryKey(ctx context.Context, view, scopeKey string) (string, error) {
	gen, err := c.redis.Get(ctx, cacheGenerationKey).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("failed to read cache generation: %w", err)
	}
	sum := sha1.Sum([]byte(scopeKey))
	return fmt.Sprintf("%sg%d:%s:%s", cacheKeyPrefix, gen, view, hex.EncodeToString(sum[:])), nil
}
