package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_IncrementsPerKey(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	resetAt := time.Now().Add(time.Minute)

	for i := int64(1); i <= 3; i++ {
		count, err := store.Incr(context.Background(), "k1", resetAt)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	count, err := store.Incr(context.Background(), "k2", resetAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_ExpiredEntryRestartsAtOne(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	store := ratelimit.NewMemoryStore(ratelimit.WithNowFunc(func() time.Time { return now }))

	_, err := store.Incr(context.Background(), "k", now.Add(time.Minute))
	require.NoError(t, err)
	_, err = store.Incr(context.Background(), "k", now.Add(time.Minute))
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	count, err := store.Incr(context.Background(), "k", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_SweepRemovesExpiredEntries(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	store := ratelimit.NewMemoryStore(ratelimit.WithNowFunc(func() time.Time { return now }))

	_, err := store.Incr(context.Background(), "old", now.Add(time.Second))
	require.NoError(t, err)
	_, err = store.Incr(context.Background(), "live", now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	now = now.Add(time.Minute)
	store.Sweep()

	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentIncrementsLoseNoUpdates(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	resetAt := time.Now().Add(time.Minute)

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				_, err := store.Incr(context.Background(), "shared", resetAt)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	count, err := store.Incr(context.Background(), "shared", resetAt)
	require.NoError(t, err)
	assert.Equal(t, int64(goroutines*perGoroutine+1), count)
}
