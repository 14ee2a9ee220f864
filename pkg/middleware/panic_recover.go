package middleware

import (
	"fmt"

	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type panicRecoverMiddleware struct {
	logger     *logrus.Logger
	production bool
}

func NewPanicRecoverMiddleware(logger *logrus.Logger, production bool) Middleware {
	return &panicRecoverMiddleware{logger: logger, production: production}
}

// Middleware is the outermost error boundary: handler panics and returned
// errors both end here and never reach the transport layer unhandled. The
// caller gets a generic message in production, the detailed one elsewhere;
// the full error is logged with request, company and principal ids for
// correlation.
func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var recovered interface{}

		err := func() error {
			defer func() {
				recovered = recover()
			}()
			return c.Next()
		}()

		if recovered == nil && err == nil {
			return nil
		}

		entry := m.logger.WithFields(logrus.Fields{
			"requestID": c.Locals(common.RequestIDContextKey),
			"companyID": c.Locals(common.CompanyContextKey),
			"path":      c.Path(),
		})
		if p, ok := c.Locals(common.PrincipalContextKey).(*principal.Principal); ok {
			entry = entry.WithField("principalID", p.ID.String())
		}

		detail := "internal server error"
		if recovered != nil {
			entry.WithField("panic", recovered).Error("handler panic recovered")
			if !m.production {
				detail = fmt.Sprintf("panic: %v", recovered)
			}
		} else {
			entry.WithError(err).Error("handler error")
			if !m.production {
				detail = err.Error()
			}
		}

		return errorResponse(c, fiber.StatusInternalServerError, "internal_error", detail)
	}
}
