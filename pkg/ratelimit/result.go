package ratelimit

import "time"

// Result is the admit/deny decision for a single check. Derived value,
// never persisted.
type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time

	// RetryAfter is the suggested wait in seconds; only set on denial.
	RetryAfter int64

	// Scope identifies which scope produced this result when checked
	// through the combined limiter.
	Scope ScopeKind

	// Class is the name of the limit class that produced the result.
	Class string
}
