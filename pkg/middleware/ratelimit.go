package middleware

import (
	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/fieldops/apigate/pkg/infra/prometheus"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RateLimitMiddleware struct {
	logger   *logrus.Logger
	limiter  *ratelimit.Limiter
	combined *ratelimit.CombinedLimiter
}

func NewRateLimitMiddleware(
	logger *logrus.Logger,
	limiter *ratelimit.Limiter,
	combined *ratelimit.CombinedLimiter,
) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		logger:   logger,
		limiter:  limiter,
		combined: combined,
	}
}

// PreAuth limits on the IP scope only. It runs before authentication so
// unauthenticated abuse is caught before paying the cost of a session
// lookup.
func (m *RateLimitMiddleware) PreAuth(class ratelimit.Class) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if trusted, _ := c.Locals(common.TrustedContextKey).(bool); trusted {
			return c.Next()
		}

		ip := ratelimit.ResolveIP(c.Get, c.IP())
		result := m.limiter.Check(c.Context(), ratelimit.ScopeIdentifier(ratelimit.ScopeIP, ip), class)
		result.Scope = ratelimit.ScopeIP

		setRateLimitHeaders(c, result)
		if !result.Allowed {
			return m.deny(c, result)
		}
		return c.Next()
	}
}

// PostAuth evaluates the combined IP, user and company-aggregate scopes.
// Per-user and per-tenant limits catch abuse that spreads across many IPs
// but converges on one account or tenant.
func (m *RateLimitMiddleware) PostAuth(class ratelimit.Class) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if trusted, _ := c.Locals(common.TrustedContextKey).(bool); trusted {
			return c.Next()
		}

		var userID, companyID string
		if p, ok := c.Locals(common.PrincipalContextKey).(*principal.Principal); ok {
			userID = p.ID.String()
			companyID = p.CompanyID.String()
		}

		ip := ratelimit.ResolveIP(c.Get, c.IP())
		result := m.combined.Check(c.Context(), class, ip, userID, companyID)

		setRateLimitHeaders(c, result)
		if !result.Allowed {
			return m.deny(c, result)
		}
		return c.Next()
	}
}

func (m *RateLimitMiddleware) deny(c *fiber.Ctx, result ratelimit.Result) error {
	prometheus.RateLimitDenialsTotal.WithLabelValues(string(result.Scope), result.Class).Inc()
	m.logger.WithFields(logrus.Fields{
		"requestID":  c.Locals(common.RequestIDContextKey),
		"scope":      result.Scope,
		"class":      result.Class,
		"retryAfter": result.RetryAfter,
	}).Debug("rate limit exceeded")

	return errorResponse(c, fiber.StatusTooManyRequests, "rate_limit_exceeded",
		"Too many requests, please retry later")
}
