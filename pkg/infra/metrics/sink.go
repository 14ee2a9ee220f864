package metrics

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Sink receives request events. Implementations are called off the request
// path and may block on their own I/O.
type Sink interface {
	Record(ctx context.Context, event RequestEvent) error
}

// LogSink writes request events to the structured log. It is the default
// sink for deployments without a dedicated metrics service.
type LogSink struct {
	logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, event RequestEvent) error {
	s.logger.WithFields(logrus.Fields{
		"requestID":      event.RequestID,
		"companyID":      event.CompanyID,
		"endpoint":       event.Endpoint,
		"method":         event.Method,
		"statusCode":     event.StatusCode,
		"responseTimeMs": event.ResponseTimeMs,
		"rateLimited":    event.RateLimited,
		"trusted":        event.Trusted,
	}).Info("request processed")
	return nil
}
