package http

import (
	"github.com/fieldops/apigate/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type versionHandler struct{}

func NewVersionHandler() Handler {
	return &versionHandler{}
}

func (h *versionHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"version": version.Version,
	})
}
