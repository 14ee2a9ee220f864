package middleware

import (
	"fmt"
	"time"

	"github.com/fieldops/apigate/pkg/common"
	"github.com/fieldops/apigate/pkg/infra/metrics"
	"github.com/fieldops/apigate/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
	worker *metrics.Worker
}

func NewMetricsMiddleware(logger *logrus.Logger, worker *metrics.Worker) Middleware {
	return &metricsMiddleware{
		logger: logger,
		worker: worker,
	}
}

// Middleware records a request event for every request, success or failure.
// Prometheus counters are updated inline (cheap); the sink event is handed
// to the worker pool and never blocks the response.
func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := func() string {
			id, _ := c.Locals(common.CompanyContextKey).(string)
			return id
		}

		if prometheus.Config.EnableConnections {
			prometheus.Connections.WithLabelValues(companyID(), "active").Inc()
			defer prometheus.Connections.WithLabelValues(companyID(), "active").Dec()
		}

		startTime, ok := c.Locals(common.StartTimeContextKey).(time.Time)
		if !ok {
			m.logger.Error("start time not found in context")
			startTime = time.Now()
		}

		err := c.Next()

		elapsed := time.Since(startTime)
		statusCode := c.Response().StatusCode()

		prometheus.RequestTotal.WithLabelValues(
			companyID(),
			c.Method(),
			statusClass(statusCode),
		).Inc()
		if prometheus.Config.EnableLatency {
			prometheus.RequestLatency.WithLabelValues(companyID()).
				Observe(float64(elapsed.Milliseconds()))
		}

		requestID, _ := c.Locals(common.RequestIDContextKey).(string)
		trusted, _ := c.Locals(common.TrustedContextKey).(bool)

		event := metrics.RequestEvent{
			RequestID:      requestID,
			CompanyID:      companyID(),
			Endpoint:       c.Path(),
			Method:         c.Method(),
			StatusCode:     statusCode,
			ResponseTimeMs: elapsed.Milliseconds(),
			RateLimited:    statusCode == fiber.StatusTooManyRequests,
			Trusted:        trusted,
		}
		metrics.ClassifyUserAgent(&event, c.Get(fiber.HeaderUserAgent))
		m.worker.Enqueue(event)

		return err
	}
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
