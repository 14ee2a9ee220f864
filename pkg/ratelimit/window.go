package ratelimit

import (
	"fmt"
	"time"
)

// windowStart maps wall-clock time to the start of its fixed window:
// floor(now / window) * window. Requests in the same window for the same
// identifier and class collide to the same counter key; requests in
// different windows never do.
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

func counterKey(class Class, identifier string, start time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", class.Name, identifier, start.UnixMilli())
}
