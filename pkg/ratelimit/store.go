package ratelimit

import (
	"context"
	"time"
)

// CounterStore holds windowed request counters. Implementations must make
// Incr atomic (increment plus expiry as one operation); a read-modify-write
// without atomicity loses updates under concurrent requests for the same key.
type CounterStore interface {
	// Incr increments the counter at key, creating it with the given
	// expiry when absent, and returns the post-increment count.
	Incr(ctx context.Context, key string, resetAt time.Time) (int64, error)
}
