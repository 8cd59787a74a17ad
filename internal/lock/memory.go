package lock

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local lock table with the same contract as the Redis
// locker. It only provides mutual exclusion within one process, so it is
// suitable for tests and single-node deployments.
type Memory struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

func (l *Memory) TryAcquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *Memory) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
