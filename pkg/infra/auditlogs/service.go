package auditlogs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Service records audit events. Emit is fire-and-forget: delivery happens on
// a background worker and never blocks the response.
type Service interface {
	Emit(event Event)
	Close() error
}

type service struct {
	enabled   bool
	logger    *logrus.Logger
	exporter  Exporter
	eventChan chan Event
	wg        sync.WaitGroup
	closed    atomic.Bool
}

func NewService(exporter Exporter, logger *logrus.Logger, enabled bool) Service {
	s := &service{
		enabled:   enabled,
		logger:    logger,
		exporter:  exporter,
		eventChan: make(chan Event, 500),
	}
	if enabled && exporter != nil {
		s.wg.Add(1)
		go s.run()
	}
	return s
}

func (s *service) run() {
	defer s.wg.Done()
	for event := range s.eventChan {
		if err := s.exporter.Export(context.Background(), event); err != nil {
			s.logger.WithFields(logrus.Fields{
				"action":    event.Action,
				"companyID": event.CompanyID,
			}).WithError(err).Error("failed to export audit event")
		}
	}
}

func (s *service) Emit(event Event) {
	if !s.enabled || s.exporter == nil || s.closed.Load() {
		return
	}
	if event.CompanyID == "" {
		s.logger.Warn("audit event skipped: missing company id")
		return
	}

	select {
	case s.eventChan <- event:
	default:
		s.logger.WithField("action", event.Action).
			Warn("audit queue is full, dropping event")
	}
}

func (s *service) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.enabled && s.exporter != nil {
		close(s.eventChan)
		s.wg.Wait()
		return s.exporter.Close()
	}
	return nil
}
