package middleware

import (
	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthorizeMiddleware struct {
	logger *logrus.Logger
}

func NewAuthorizeMiddleware(logger *logrus.Logger) *AuthorizeMiddleware {
	return &AuthorizeMiddleware{logger: logger}
}

// Handler enforces the endpoint's allowed role set. Runs after
// authentication and after post-auth limiting.
func (m *AuthorizeMiddleware) Handler(roles []principal.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(roles) == 0 {
			return c.Next()
		}

		p, ok := c.Locals(common.PrincipalContextKey).(*principal.Principal)
		if !ok {
			m.logger.Error("authorize middleware reached without principal in context")
			return errorResponse(c, fiber.StatusForbidden, "authorization_denied", "Access denied")
		}

		if !p.Role.OneOf(roles) {
			m.logger.WithFields(logrus.Fields{
				"requestID":   c.Locals(common.RequestIDContextKey),
				"principalID": p.ID.String(),
				"role":        p.Role,
			}).Debug("role not allowed for endpoint")
			return errorResponse(c, fiber.StatusForbidden, "authorization_denied", "Access denied")
		}

		return c.Next()
	}
}
