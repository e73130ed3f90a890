package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the lock only if this instance still holds it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// JobLock is a Redis SetNX lock so periodic jobs run on a single instance
// at a time. The TTL bounds the hold time if an instance dies mid-run.
type JobLock struct {
	redis *redis.Client
	key   string
	value string
	ttl   time.Duration
}

// NewJobLock creates a lock under the given key
func NewJobLock(client *redis.Client, key string, ttl time.Duration) *JobLock {
	return &JobLock{
		redis: client,
		key:   key,
		value: uuid.NewString(),
		ttl:   ttl,
	}
}

// TryLock attempts to acquire the lock without blocking
func (l *JobLock) TryLock(ctx context.Context) (bool, error) {
	acquired, err := l.redis.SetNX(ctx, l.key, l.value, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	return acquired, nil
}

// Unlock releases the lock if this instance still holds it
func (l *JobLock) Unlock(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.redis, []string{l.key}, l.value).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	return nil
}
