package idempotency

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local key store with the Redis store's contract,
// used in tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   func() time.Time
}

type memoryEntry struct {
	transferID string
	expiresAt  time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		clock:   time.Now,
	}
}

func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || s.clock().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.transferID, true, nil
}

func (s *Memory) Put(_ context.Context, key, transferID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		transferID: transferID,
		expiresAt:  s.clock().Add(ttl),
	}
	return nil
}
