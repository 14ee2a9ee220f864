package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/fieldops/apigate/pkg/domain/session"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	logger   *logrus.Logger
	resolver session.Resolver
	loader   principal.Loader
}

func NewAuthMiddleware(
	logger *logrus.Logger,
	resolver session.Resolver,
	loader principal.Loader,
) *AuthMiddleware {
	return &AuthMiddleware{
		logger:   logger,
		resolver: resolver,
		loader:   loader,
	}
}

// Handler authenticates the request and resolves the tenant principal. A
// request is unauthenticated until this succeeds; afterwards the principal
// and company id are available in the request context and never change.
func (m *AuthMiddleware) Handler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := bearerToken(ctx)
		if token == "" {
			m.logger.Debug("no session token provided")
			return errorResponse(ctx, fiber.StatusUnauthorized, "authentication_required",
				"Authentication required")
		}

		sess, err := m.resolver.Resolve(ctx.Context(), token)
		if err != nil {
			m.logger.WithError(err).Debug("invalid session token")
			return errorResponse(ctx, fiber.StatusUnauthorized, "authentication_required",
				"Invalid or expired session")
		}

		p, err := m.loader.Load(ctx.Context(), sess.UserID)
		if err != nil {
			if errors.Is(err, principal.ErrNotFound) {
				// Valid session without a tenant profile points at
				// orphaned session data.
				m.logger.WithFields(logrus.Fields{
					"requestID": ctx.Locals(common.RequestIDContextKey),
					"userID":    sess.UserID,
				}).Warn("session resolved but tenant profile missing")
				return errorResponse(ctx, fiber.StatusForbidden, "profile_not_found",
					"No tenant profile for this account")
			}
			m.logger.WithError(err).Error("failed to load tenant profile")
			return err
		}

		ctx.Locals(common.PrincipalContextKey, p)
		ctx.Locals(common.CompanyContextKey, p.CompanyID.String())

		c := context.WithValue(ctx.Context(), common.PrincipalContextKey, p)
		c = context.WithValue(c, common.CompanyContextKey, p.CompanyID.String())
		ctx.SetUserContext(c)

		return ctx.Next()
	}
}

func bearerToken(ctx *fiber.Ctx) string {
	header := ctx.Get(common.AuthorizationHeader)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, common.BearerPrefix)
}
