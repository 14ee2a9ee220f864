package auditlogs

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Exporter delivers audit events to their destination.
type Exporter interface {
	Name() string
	Export(ctx context.Context, event Event) error
	Close() error
}

// LogExporter writes audit events to the structured log.
type LogExporter struct {
	logger *logrus.Logger
}

func NewLogExporter(logger *logrus.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

func (e *LogExporter) Name() string {
	return "log"
}

func (e *LogExporter) Export(_ context.Context, event Event) error {
	e.logger.WithFields(logrus.Fields{
		"action":    event.Action,
		"companyID": event.CompanyID,
		"userID":    event.UserID,
		"ipAddress": event.IPAddress,
		"requestID": event.RequestID,
	}).Info("audit event")
	return nil
}

func (e *LogExporter) Close() error {
	return nil
}
