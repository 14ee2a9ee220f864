package middleware

import (
	"context"
	"time"

	"github.com/fieldops/apigate/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type requestIDMiddleware struct {
	uuidProvider func() uuid.UUID
}

type RequestIDOpts struct {
	UuidProvider func() uuid.UUID
}

func NewRequestIDMiddleware(opts *RequestIDOpts) Middleware {
	uuidProvider := uuid.New
	if opts != nil && opts.UuidProvider != nil {
		uuidProvider = opts.UuidProvider
	}
	return &requestIDMiddleware{uuidProvider: uuidProvider}
}

// Middleware attaches a unique request id to the context and the response,
// and captures the request start time. Runs first: every response, success
// or failure, carries X-Request-ID.
func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestID := m.uuidProvider().String()

		ctx.Locals(common.RequestIDContextKey, requestID)
		ctx.Locals(common.StartTimeContextKey, time.Now())
		ctx.Set(common.RequestIDHeader, requestID)

		c := context.WithValue(ctx.Context(), common.RequestIDContextKey, requestID)
		ctx.SetUserContext(c)

		return ctx.Next()
	}
}
