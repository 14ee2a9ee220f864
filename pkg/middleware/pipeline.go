package middleware

import (
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
)

// Pipeline assembles the per-request admission sequence. The order is fixed
// and terminal on first failure:
//
//	request id -> metrics -> error boundary -> trust check ->
//	pre-auth IP limit -> authenticate -> load principal ->
//	post-auth combined limit -> authorize -> audit -> handler
type Pipeline struct {
	transport Transport
	classes   *ratelimit.ClassSet
}

func NewPipeline(transport Transport, classes *ratelimit.ClassSet) *Pipeline {
	return &Pipeline{
		transport: transport,
		classes:   classes,
	}
}

// Global returns the handlers applied to every route, outermost first.
func (p *Pipeline) Global() []fiber.Handler {
	return []fiber.Handler{
		p.transport.RequestIDMiddleware.Middleware(),
		p.transport.MetricsMiddleware.Middleware(),
		p.transport.RecoverMiddleware.Middleware(),
		p.transport.TrustMiddleware.Middleware(),
	}
}

// Route returns the policy-specific handlers for a route group. Limit
// classes are resolved here, at registration time, so an unknown class is a
// startup error rather than a per-request one.
func (p *Pipeline) Route(policy Policy) ([]fiber.Handler, error) {
	class, err := p.classes.Get(policy.Class)
	if err != nil {
		return nil, err
	}

	handlers := []fiber.Handler{
		p.transport.RateLimitMiddleware.PreAuth(class),
	}

	if policy.RequireAuth {
		handlers = append(handlers,
			p.transport.AuthMiddleware.Handler(),
			p.transport.RateLimitMiddleware.PostAuth(class),
			p.transport.AuthorizeMiddleware.Handler(policy.Roles),
		)
	}

	if policy.AuditAction != "" {
		handlers = append(handlers, p.transport.AuditMiddleware.Handler(policy.AuditAction))
	}

	return handlers, nil
}
