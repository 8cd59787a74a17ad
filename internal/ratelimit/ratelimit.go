// Package ratelimit implements a fixed-window request counter shared
// through Redis, so the limit holds across every server process.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

type Redis struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedis(client *redis.Client, max int, window time.Duration) *Redis {
	return &Redis{client: client, max: max, window: window}
}

// Allow consumes one request for key. When the window is exhausted it
// returns false plus the time until the window resets.
func (l *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	bucket := keyPrefix + key
	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, bucket, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= int64(l.max) {
		return true, 0, nil
	}
	retryAfter, err := l.client.TTL(ctx, bucket).Result()
	if err != nil || retryAfter < 0 {
		retryAfter = l.window
	}
	return false, retryAfter, nil
}
