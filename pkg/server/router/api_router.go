package router

import (
	"github.com/fieldops/apigate/pkg/domain/principal"
	httpHandlers "github.com/fieldops/apigate/pkg/handlers/http"
	"github.com/fieldops/apigate/pkg/middleware"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
)

// Route binds one endpoint to its admission policy. Business modules mount
// their handlers through this; the pipeline in front of them is identical
// for every endpoint.
type Route struct {
	Method  string
	Path    string
	Policy  middleware.Policy
	Handler fiber.Handler
}

type apiRouter struct {
	pipeline *middleware.Pipeline
	handlers httpHandlers.HandlerTransport
	extra    []Route
}

func NewAPIRouter(
	pipeline *middleware.Pipeline,
	handlers httpHandlers.HandlerTransport,
	extra []Route,
) ServerRouter {
	return &apiRouter{
		pipeline: pipeline,
		handlers: handlers,
		extra:    extra,
	}
}

func (r *apiRouter) BuildRoutes(app *fiber.App) error {
	for _, h := range r.pipeline.Global() {
		app.Use(h)
	}

	builtin := []Route{
		{
			Method: fiber.MethodGet,
			Path:   "/api/v1/me",
			Policy: middleware.Policy{
				Class:       ratelimit.ClassAPI,
				RequireAuth: true,
			},
			Handler: r.handlers.WhoAmIHandler.Handle,
		},
		{
			Method: fiber.MethodGet,
			Path:   "/api/v1/version",
			Policy: middleware.Policy{
				Class: ratelimit.ClassAPI,
			},
			Handler: r.handlers.VersionHandler.Handle,
		},
	}

	for _, route := range append(builtin, r.extra...) {
		if err := r.register(app, route); err != nil {
			return err
		}
	}
	return nil
}

func (r *apiRouter) register(app *fiber.App, route Route) error {
	chain, err := r.pipeline.Route(route.Policy)
	if err != nil {
		return err
	}
	app.Add(route.Method, route.Path, append(chain, route.Handler)...)
	return nil
}

// AdminOnly is a convenience role set for management endpoints.
func AdminOnly() []principal.Role {
	return []principal.Role{principal.RoleAdmin}
}

// BackOffice covers roles allowed to touch financial records.
func BackOffice() []principal.Role {
	return []principal.Role{principal.RoleAdmin, principal.RoleManager}
}

// Policy helpers for business modules mounting their own routes. Picking the
// right class here is the whole contract; the pipeline does the rest.

// LoginPolicy is for credential endpoints: tight window, no session yet.
func LoginPolicy() middleware.Policy {
	return middleware.Policy{Class: ratelimit.ClassAuth}
}

// StandardPolicy covers ordinary authenticated CRUD reads and writes.
func StandardPolicy() middleware.Policy {
	return middleware.Policy{Class: ratelimit.ClassAPI, RequireAuth: true}
}

// SearchPolicy covers list/search endpoints.
func SearchPolicy() middleware.Policy {
	return middleware.Policy{Class: ratelimit.ClassSearch, RequireAuth: true}
}

// HeavyPolicy covers report generation and bulk exports.
func HeavyPolicy() middleware.Policy {
	return middleware.Policy{Class: ratelimit.ClassHeavy, RequireAuth: true}
}

// FinancialPolicy covers invoice and payment mutations: back-office roles
// only, audited under the given action.
func FinancialPolicy(auditAction string) middleware.Policy {
	return middleware.Policy{
		Class:       ratelimit.ClassFinancial,
		RequireAuth: true,
		Roles:       BackOffice(),
		AuditAction: auditAction,
	}
}
