package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/config"
	"github.com/fieldops/apigate/pkg/domain/principal"
	httpHandlers "github.com/fieldops/apigate/pkg/handlers/http"
	"github.com/fieldops/apigate/pkg/infra/auditlogs"
	"github.com/fieldops/apigate/pkg/infra/auth"
	"github.com/fieldops/apigate/pkg/infra/metrics"
	"github.com/fieldops/apigate/pkg/infra/trust"
	"github.com/fieldops/apigate/pkg/middleware"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/fieldops/apigate/pkg/server"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testUserID    = uuid.New()
	testCompanyID = uuid.New()
)

type staticLoader struct{}

func (staticLoader) Load(_ context.Context, userID string) (*principal.Principal, error) {
	if userID != testUserID.String() {
		return nil, principal.ErrNotFound
	}
	return &principal.Principal{
		ID:        testUserID,
		CompanyID: testCompanyID,
		Role:      principal.RoleAdmin,
		Email:     "admin@acme.test",
	}, nil
}

func newTestServer(t *testing.T) (*server.AdmissionServer, *auth.SessionResolver) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:      "127.0.0.1",
			Port:      0,
			SecretKey: "test-secret",
		},
		Limits: config.LimitsConfig{
			Classes: map[string]config.LimitClassConfig{
				ratelimit.ClassAPI:              {Window: time.Minute, MaxRequests: 100},
				ratelimit.ClassCompanyAggregate: {Window: time.Minute, MaxRequests: 1000},
			},
		},
	}

	classes, err := ratelimit.NewClassSet(cfg.Limits)
	require.NoError(t, err)
	aggregate, err := classes.Get(ratelimit.ClassCompanyAggregate)
	require.NoError(t, err)

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), logger, nil)
	resolver := auth.NewSessionResolver(&cfg.Server)

	worker := metrics.NewWorker(logger, metrics.NewLogSink(logger), 1)
	t.Cleanup(worker.Shutdown)
	auditService := auditlogs.NewService(nil, logger, false)

	transport := middleware.Transport{
		RequestIDMiddleware: middleware.NewRequestIDMiddleware(nil),
		MetricsMiddleware:   middleware.NewMetricsMiddleware(logger, worker),
		RecoverMiddleware:   middleware.NewPanicRecoverMiddleware(logger, false),
		TrustMiddleware:     middleware.NewTrustMiddleware(logger, trust.NewChecker(logger, config.TrustConfig{})),
		RateLimitMiddleware: middleware.NewRateLimitMiddleware(logger, limiter, ratelimit.NewCombinedLimiter(limiter, aggregate)),
		AuthMiddleware:      middleware.NewAuthMiddleware(logger, resolver, staticLoader{}),
		AuthorizeMiddleware: middleware.NewAuthorizeMiddleware(logger),
		AuditMiddleware:     middleware.NewAuditMiddleware(logger, auditService),
	}

	srv := server.NewAdmissionServer(server.AdmissionServerDI{
		Config:   cfg,
		Logger:   logger,
		Pipeline: middleware.NewPipeline(transport, classes),
		HandlerTransport: httpHandlers.HandlerTransport{
			WhoAmIHandler:  httpHandlers.NewWhoAmIHandler(logger),
			VersionHandler: httpHandlers.NewVersionHandler(),
		},
	})
	return srv, resolver
}

func get(t *testing.T, app *fiber.App, path string, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func TestAdmissionServer_Routes(t *testing.T) {
	srv, resolver := newTestServer(t)
	app := srv.Router

	t.Run("health probes skip the pipeline", func(t *testing.T) {
		resp, body := get(t, app, server.HealthPath, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "healthy", body["status"])
		assert.Empty(t, resp.Header.Get(common.RequestIDHeader))

		resp, body = get(t, app, server.PingPath, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "pong", body["message"])
	})

	t.Run("version is public but rate limited", func(t *testing.T) {
		resp, body := get(t, app, "/api/v1/version", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["version"])
		assert.NotEmpty(t, resp.Header.Get(common.RequestIDHeader))
		assert.NotEmpty(t, resp.Header.Get(common.RateLimitRemainingHeader))
	})

	t.Run("whoami requires a session", func(t *testing.T) {
		resp, body := get(t, app, "/api/v1/me", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "authentication_required", body["error"])
	})

	t.Run("whoami returns the resolved principal", func(t *testing.T) {
		token, err := resolver.CreateToken(testUserID.String(), time.Hour)
		require.NoError(t, err)

		resp, body := get(t, app, "/api/v1/me", map[string]string{
			common.AuthorizationHeader: common.BearerPrefix + token,
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, testUserID.String(), body["id"])
		assert.Equal(t, testCompanyID.String(), body["companyId"])
		assert.Equal(t, string(principal.RoleAdmin), body["role"])
	})
}
