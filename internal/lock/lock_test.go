package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTryAcquireIsExclusive(t *testing.T) {
	ctx := context.Background()
	locker := NewMemory()

	acquired, err := locker.TryAcquire(ctx, "transfer_lock:acc-1", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)

	again, err := locker.TryAcquire(ctx, "transfer_lock:acc-1", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := locker.TryAcquire(ctx, "transfer_lock:acc-2", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, other, "disjoint keys must not contend")
}

func TestMemoryReleaseFreesKey(t *testing.T) {
	ctx := context.Background()
	locker := NewMemory()

	acquired, err := locker.TryAcquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, locker.Release(ctx, "k"))

	acquired, err = locker.TryAcquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemoryReleaseOfUnheldKeyIsNoop(t *testing.T) {
	locker := NewMemory()
	assert.NoError(t, locker.Release(context.Background(), "never-held"))
}

func TestMemoryLockExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	locker := NewMemory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	locker.clock = func() time.Time { return now }

	acquired, err := locker.TryAcquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	now = now.Add(5 * time.Second)
	acquired, err = locker.TryAcquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "lock must still be held before TTL")

	now = now.Add(6 * time.Second)
	acquired, err = locker.TryAcquire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "crashed holder's lock must self-expire")
}

func TestMemoryConcurrentAcquireSingleWinner(t *testing.T) {
	ctx := context.Background()
	locker := NewMemory()

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired, err := locker.TryAcquire(ctx, "k", 10*time.Second)
			require.NoError(t, err)
			if acquired {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}
