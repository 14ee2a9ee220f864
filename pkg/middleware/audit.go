package middleware

import (
	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/fieldops/apigate/pkg/infra/auditlogs"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuditMiddleware struct {
	logger  *logrus.Logger
	service auditlogs.Service
}

func NewAuditMiddleware(logger *logrus.Logger, service auditlogs.Service) *AuditMiddleware {
	return &AuditMiddleware{
		logger:  logger,
		service: service,
	}
}

// Handler records an audit event after the endpoint handler succeeds.
// Emission is fire-and-forget; a failed handler produces no audit record.
func (m *AuditMiddleware) Handler(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}

		p, ok := c.Locals(common.PrincipalContextKey).(*principal.Principal)
		if !ok {
			m.logger.WithField("action", action).
				Warn("audit skipped: no principal in context")
			return err
		}

		requestID, _ := c.Locals(common.RequestIDContextKey).(string)
		m.service.Emit(auditlogs.Event{
			Action:    action,
			CompanyID: p.CompanyID.String(),
			UserID:    p.ID.String(),
			IPAddress: ratelimit.ResolveIP(c.Get, c.IP()),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			RequestID: requestID,
			Payload: map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
			},
		})

		return err
	}
}
