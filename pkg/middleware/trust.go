package middleware

import (
	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/infra/prometheus"
	"github.com/fieldops/apigate/pkg/infra/trust"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type trustMiddleware struct {
	logger  *logrus.Logger
	checker trust.Checker
}

func NewTrustMiddleware(logger *logrus.Logger, checker trust.Checker) Middleware {
	return &trustMiddleware{
		logger:  logger,
		checker: checker,
	}
}

// Middleware marks trusted internal callers. Evaluated once, before any
// limiting; both limit stages consult the flag and skip entirely. Metrics
// and audit still run for trusted requests.
func (m *trustMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.checker.IsTrusted(c.Get(common.InternalCallHeader), c.IP()) {
			c.Locals(common.TrustedContextKey, true)
			prometheus.TrustedBypassTotal.Inc()
			m.logger.WithField("path", c.Path()).Debug("trusted caller, bypassing rate limits")
		}
		return c.Next()
	}
}
