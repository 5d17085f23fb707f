package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistributedLock acquires and releases a cross-instance lock keyed by an
// id. RunSweeper uses it so that only one instance sweeps on a given tick.
// Store.Update does not take it: per-session serialization is the
// in-process mutex only.
type DistributedLock interface {
	TryLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, sessionID, token string) error
}

// RedisLock is a SetNX-based distributed lock, grounded on the teacher's
// internal/workspaces/redis_cache.go AcquireCommitLock (same SetNX-with-TTL
// shape, generalized from a per-project commit lock to a per-session one).
type RedisLock struct {
	client redis.UniversalClient
}

// NewRedisLock wraps an existing Redis client.
func NewRedisLock(client redis.UniversalClient) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) key(sessionID string) string {
	return "story_session:" + sessionID + ":lock"
}

// TryLock attempts to acquire the lock, returning false (not an error) if
// another instance already holds it.
func (l *RedisLock) TryLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.key(sessionID), "1", ttl).Result()
}

// Unlock releases the lock unconditionally. Since the lock value carries no
// owner token in this single-writer-at-a-time usage, Unlock simply deletes
// the key; a stale lock still self-expires via its TTL if a holder crashes
// before releasing.
func (l *RedisLock) Unlock(ctx context.Context, sessionID, _ string) error {
	return l.client.Del(ctx, l.key(sessionID)).Err()
}
