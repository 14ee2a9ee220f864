package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/apigate/pkg/domain"
	"github.com/sony/gobreaker"
)

// BreakerStore decorates a CounterStore with a circuit breaker so that a
// store outage fails fast into the class fail policy instead of holding
// every request on a dead backend.
type BreakerStore struct {
	store   CounterStore
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerStore(store CounterStore, name string, timeout time.Duration, maxFailures uint32) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}
	return &BreakerStore{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (s *BreakerStore) Incr(ctx context.Context, key string, resetAt time.Time) (int64, error) {
	count, err := s.breaker.Execute(func() (interface{}, error) {
		return s.store.Incr(ctx, key, resetAt)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: breaker (%s): %v", domain.ErrStoreUnavailable, s.breaker.Name(), err)
	}
	c, ok := count.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected count type", domain.ErrStoreUnavailable)
	}
	return c, nil
}
