package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired is returned when an endpoint requires a
	// valid session and none was presented.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrProfileNotFound indicates a valid session whose principal has no
	// tenant profile (orphaned session).
	ErrProfileNotFound = errors.New("tenant profile not found")

	// ErrAuthorizationDenied indicates the principal's role is not in the
	// endpoint's allowed set.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrStoreUnavailable is an internal error raised when the counter
	// store cannot be reached. It is never surfaced to callers directly;
	// the limiter translates it through the class fail policy.
	ErrStoreUnavailable = errors.New("counter store unavailable")
)

// RateLimitError carries the metadata needed to build a 429 response.
type RateLimitError struct {
	Scope      string
	Class      string
	Limit      int64
	RetryAfter int64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded for class %s, retry after %ds", e.Scope, e.Class, e.RetryAfter)
}
