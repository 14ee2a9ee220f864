package ratelimit_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fieldops/apigate/pkg/config"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts Incr calls so tests can assert how many scopes were
// actually evaluated.
type countingStore struct {
	inner ratelimit.CounterStore
	calls atomic.Int64
}

func (s *countingStore) Incr(ctx context.Context, key string, resetAt time.Time) (int64, error) {
	s.calls.Add(1)
	return s.inner.Incr(ctx, key, resetAt)
}

func newCombined(t *testing.T, store ratelimit.CounterStore) (*ratelimit.CombinedLimiter, ratelimit.Class) {
	t.Helper()
	classes := testClasses(t)
	apiClass, err := classes.Get(ratelimit.ClassAPI)
	require.NoError(t, err)
	aggregate, err := classes.Get(ratelimit.ClassCompanyAggregate)
	require.NoError(t, err)

	limiter := ratelimit.NewLimiter(store, testLogger(), nil)
	return ratelimit.NewCombinedLimiter(limiter, aggregate), apiClass
}

func TestCombinedLimiter_AllScopesAdmit(t *testing.T) {
	store := &countingStore{inner: ratelimit.NewMemoryStore()}
	combined, apiClass := newCombined(t, store)

	result := combined.Check(context.Background(), apiClass, "203.0.113.9", "alice", "acme")

	assert.True(t, result.Allowed)
	assert.Equal(t, ratelimit.ScopeIP, result.Scope)
	assert.Equal(t, ratelimit.ClassAPI, result.Class)
	assert.Equal(t, int64(3), store.calls.Load())
}

func TestCombinedLimiter_EmptyScopesAreSkipped(t *testing.T) {
	store := &countingStore{inner: ratelimit.NewMemoryStore()}
	combined, apiClass := newCombined(t, store)

	result := combined.Check(context.Background(), apiClass, "203.0.113.9", "", "")

	assert.True(t, result.Allowed)
	assert.Equal(t, ratelimit.ScopeIP, result.Scope)
	assert.Equal(t, int64(1), store.calls.Load())
}

func TestCombinedLimiter_IPDenialShortCircuits(t *testing.T) {
	store := &countingStore{inner: ratelimit.NewMemoryStore()}
	combined, apiClass := newCombined(t, store)

	for i := int64(0); i < apiClass.MaxRequests; i++ {
		combined.Check(context.Background(), apiClass, "203.0.113.9", "", "")
	}
	store.calls.Store(0)

	result := combined.Check(context.Background(), apiClass, "203.0.113.9", "alice", "acme")

	assert.False(t, result.Allowed)
	assert.Equal(t, ratelimit.ScopeIP, result.Scope)
	assert.Equal(t, int64(1), store.calls.Load(), "user and company scopes must not be charged after the IP denial")
}

func TestCombinedLimiter_UserDenialReportsUserScope(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	combined, apiClass := newCombined(t, store)

	// Rotate IPs so only the user scope saturates.
	for i := int64(0); i < apiClass.MaxRequests; i++ {
		ip := fmt.Sprintf("10.0.%d.%d", i/250, i%250)
		combined.Check(context.Background(), apiClass, ip, "alice", "")
	}

	result := combined.Check(context.Background(), apiClass, "198.51.100.77", "alice", "acme")

	assert.False(t, result.Allowed)
	assert.Equal(t, ratelimit.ScopeUser, result.Scope)
}

func TestCombinedLimiter_CompanyAggregateDominates(t *testing.T) {
	classes, err := ratelimit.NewClassSet(config.LimitsConfig{
		Classes: map[string]config.LimitClassConfig{
			ratelimit.ClassAPI:              {Window: time.Minute, MaxRequests: 100},
			ratelimit.ClassCompanyAggregate: {Window: time.Minute, MaxRequests: 5},
		},
	})
	require.NoError(t, err)
	apiClass, err := classes.Get(ratelimit.ClassAPI)
	require.NoError(t, err)
	aggregate, err := classes.Get(ratelimit.ClassCompanyAggregate)
	require.NoError(t, err)

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), testLogger(), nil)
	combined := ratelimit.NewCombinedLimiter(limiter, aggregate)

	// Distinct users under one company drain the shared aggregate even though
	// no single user is anywhere near the per-user quota.
	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, user := range users {
		result := combined.Check(context.Background(), apiClass, "203.0.113."+user, user, "acme")
		require.True(t, result.Allowed)
	}

	result := combined.Check(context.Background(), apiClass, "203.0.113.200", "u6", "acme")
	assert.False(t, result.Allowed)
	assert.Equal(t, ratelimit.ScopeCompany, result.Scope)
	assert.Equal(t, ratelimit.ClassCompanyAggregate, result.Class)
}
