// Package lock provides the per-source-account mutual exclusion used to
// admit at most one in-flight transfer per account across every server
// process sharing the store. Acquisition is try-once; callers that lose
// never wait.
package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// TryAcquire takes the lock iff nobody holds it. The TTL is a safety net
// against crashed holders, not a cooperative timeout.
func (l *Redis) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "locked", ttl).Result()
}

// Release drops the lock. Releasing a key nobody holds is a no-op.
func (l *Redis) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
