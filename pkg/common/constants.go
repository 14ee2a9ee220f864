package common

const (
	RequestIDHeader = "X-Request-ID"

	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
	RateLimitResetHeader     = "X-RateLimit-Reset"
	RetryAfterHeader         = "Retry-After"

	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "

	// Set by internal infrastructure to claim trusted-caller status.
	// The value must match the configured shared secret.
	InternalCallHeader = "X-Internal-Call"
)
