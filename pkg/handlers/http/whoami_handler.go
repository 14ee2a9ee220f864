package http

import (
	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type whoAmIHandler struct {
	logger *logrus.Logger
}

func NewWhoAmIHandler(logger *logrus.Logger) Handler {
	return &whoAmIHandler{logger: logger}
}

// Handle returns the resolved principal for the current session. Useful for
// clients to bootstrap their tenant context after login.
func (h *whoAmIHandler) Handle(c *fiber.Ctx) error {
	p, ok := c.Locals(common.PrincipalContextKey).(*principal.Principal)
	if !ok {
		h.logger.Error("whoami reached without principal in context")
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":        p.ID.String(),
		"companyId": p.CompanyID.String(),
		"role":      p.Role,
		"email":     p.Email,
	})
}
