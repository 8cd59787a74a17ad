package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Memory struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	buckets map[string]*memoryBucket
	clock   func() time.Time
}

type memoryBucket struct {
	count    int
	resetsAt time.Time
}

func NewMemory(max int, window time.Duration) *Memory {
	return &Memory{
		max:     max,
		window:  window,
		buckets: make(map[string]*memoryBucket),
		clock:   time.Now,
	}
}

func (l *Memory) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	bucket, ok := l.buckets[key]
	if !ok || now.After(bucket.resetsAt) {
		bucket = &memoryBucket{resetsAt: now.Add(l.window)}
		l.buckets[key] = bucket
	}
	bucket.count++
	if bucket.count <= l.max {
		return true, 0, nil
	}
	return false, bucket.resetsAt.Sub(now), nil
}
