package middleware

import (
	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/gofiber/fiber/v2"
)

type Middleware interface {
	Middleware() fiber.Handler
}

// Policy declares the admission requirements of a route group: which limit
// class applies, whether authentication is required, which roles may call
// it, and the audit action to record (empty means no audit).
type Policy struct {
	Class       string
	RequireAuth bool
	Roles       []principal.Role
	AuditAction string
}

type Transport struct {
	RequestIDMiddleware Middleware
	MetricsMiddleware   Middleware
	RecoverMiddleware   Middleware
	TrustMiddleware     Middleware
	RateLimitMiddleware *RateLimitMiddleware
	AuthMiddleware      *AuthMiddleware
	AuthorizeMiddleware *AuthorizeMiddleware
	AuditMiddleware     *AuditMiddleware
}
