package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAllowWithinLimit(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _, err := limiter.Allow(ctx, "client-1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be admitted", i+1)
	}

	ok, retryAfter, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(1, time.Minute)

	ok, _, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, _, err = limiter.Allow(ctx, "client-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryWindowResets(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(1, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.clock = func() time.Time { return now }

	ok, _, err := limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, _, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	require.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, _, err = limiter.Allow(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
