// Package idempotency maps caller-supplied idempotency keys to the id of
// the transfer they produced, so replays of an already-processed request
// return the original result without touching a balance.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency:"

type record struct {
	ID string `json:"id"`
}

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the transfer id stored for key, if any.
func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var stored record
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return "", false, err
	}
	return stored.ID, true, nil
}

// Put stores key -> transferID until ttl expires.
func (s *Redis) Put(ctx context.Context, key, transferID string, ttl time.Duration) error {
	payload, err := json.Marshal(record{ID: transferID})
	if err != nil {
		return err
	}
	return s.client.SetEx(ctx, keyPrefix+key, payload, ttl).Err()
}
