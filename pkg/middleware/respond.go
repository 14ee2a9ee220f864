package middleware

import (
	"strconv"

	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
)

// errorResponse writes the uniform error body. Every user-visible failure
// carries the request id for support-ticket correlation without leaking
// internals.
func errorResponse(c *fiber.Ctx, status int, errCode, message string) error {
	requestID, _ := c.Locals(common.RequestIDContextKey).(string)
	return c.Status(status).JSON(fiber.Map{
		"error":     errCode,
		"message":   message,
		"requestId": requestID,
	})
}

func setRateLimitHeaders(c *fiber.Ctx, result ratelimit.Result) {
	c.Set(common.RateLimitLimitHeader, strconv.FormatInt(result.Limit, 10))
	c.Set(common.RateLimitRemainingHeader, strconv.FormatInt(result.Remaining, 10))
	c.Set(common.RateLimitResetHeader, strconv.FormatInt(result.ResetAt.Unix(), 10))
	if !result.Allowed {
		c.Set(common.RetryAfterHeader, strconv.FormatInt(result.RetryAfter, 10))
	}
}
