package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often expired counters are garbage collected.
// The sweep is amortized over Incr calls; no separate timer goroutine.
const sweepInterval = 256

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is an in-process CounterStore for single-instance deployments.
// With multiple instances the effective limit becomes per-instance, i.e. the
// true global limit multiplied by the instance count; multi-instance
// deployments should use RedisStore instead.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ops     int
	nowFunc func() time.Time
}

type MemoryStoreOption func(*MemoryStore)

func WithNowFunc(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) { s.nowFunc = now }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, resetAt time.Time) (int64, error) {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops++
	if s.ops%sweepInterval == 0 {
		s.sweepLocked(now)
	}

	entry, ok := s.entries[key]
	if !ok || now.After(entry.resetAt) {
		s.entries[key] = &memoryEntry{count: 1, resetAt: resetAt}
		return 1, nil
	}

	entry.count++
	return entry.count, nil
}

// Len reports the number of live entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired counters immediately.
func (s *MemoryStore) Sweep() {
	now := s.nowFunc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.resetAt) {
			delete(s.entries, key)
		}
	}
}
