package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/fieldops/apigate/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Limiter evaluates fixed-window rate limits. The fixed window admits bursts
// of up to 2x MaxRequests at window boundaries; that is a deliberate trade
// for O(1) time and memory per check.
type Limiter struct {
	store        CounterStore
	logger       *logrus.Logger
	timeProvider func() time.Time
}

type LimiterOpts struct {
	TimeProvider func() time.Time
}

func NewLimiter(store CounterStore, logger *logrus.Logger, opts *LimiterOpts) *Limiter {
	timeProvider := time.Now
	if opts != nil && opts.TimeProvider != nil {
		timeProvider = opts.TimeProvider
	}
	return &Limiter{
		store:        store,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Check increments the counter for the identifier's current window and
// returns the admit/deny decision. Store failures never escape: they are
// translated through the class fail policy.
func (l *Limiter) Check(ctx context.Context, identifier string, class Class) Result {
	now := l.timeProvider()
	start := windowStart(now, class.Window)
	resetAt := start.Add(class.Window)

	count, err := l.store.Incr(ctx, counterKey(class, identifier, start), resetAt)
	if err != nil {
		return l.applyFailPolicy(identifier, class, resetAt, err)
	}

	if count > class.MaxRequests {
		return Result{
			Allowed:    false,
			Limit:      class.MaxRequests,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(now, resetAt),
			Class:      class.Name,
		}
	}

	return Result{
		Allowed:   true,
		Limit:     class.MaxRequests,
		Remaining: class.MaxRequests - count,
		ResetAt:   resetAt,
		Class:     class.Name,
	}
}

// applyFailPolicy decides what a store failure means per class. Fail-closed
// classes deny with a synthetic retry-after of one full window: on security-
// and money-sensitive paths an unverifiable limit is never permission.
// Fail-open classes admit with a full window so a limiter outage does not
// become an outage of the whole API surface.
func (l *Limiter) applyFailPolicy(identifier string, class Class, resetAt time.Time, err error) Result {
	mode := "open"
	if class.FailClosed {
		mode = "closed"
	}
	prometheus.StoreFailuresTotal.WithLabelValues(mode).Inc()

	l.logger.WithFields(logrus.Fields{
		"class":      class.Name,
		"identifier": identifier,
		"failClosed": class.FailClosed,
	}).WithError(err).Warn("counter store failure, applying fail policy")

	if class.FailClosed {
		return Result{
			Allowed:    false,
			Limit:      class.MaxRequests,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: int64(class.Window / time.Second),
			Class:      class.Name,
		}
	}
	return Result{
		Allowed:   true,
		Limit:     class.MaxRequests,
		Remaining: class.MaxRequests,
		ResetAt:   resetAt,
		Class:     class.Name,
	}
}

func retryAfterSeconds(now, resetAt time.Time) int64 {
	secs := int64(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
