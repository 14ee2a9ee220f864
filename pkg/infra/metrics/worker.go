package metrics

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Worker fans request events out to the sink on background goroutines.
// Enqueue never blocks the response: when the queue is full the event is
// dropped and a warning logged.
type Worker struct {
	logger    *logrus.Logger
	sink      Sink
	eventChan chan RequestEvent
	wg        sync.WaitGroup
	closed    atomic.Bool
}

func NewWorker(logger *logrus.Logger, sink Sink, workers int) *Worker {
	if workers <= 0 {
		workers = 5
	}
	w := &Worker{
		logger:    logger,
		sink:      sink,
		eventChan: make(chan RequestEvent, 1000),
	}
	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go w.run()
	}
	return w
}

func (w *Worker) run() {
	defer w.wg.Done()
	for event := range w.eventChan {
		if err := w.sink.Record(context.Background(), event); err != nil {
			w.logger.WithField("requestID", event.RequestID).
				WithError(err).
				Error("failed to record request event")
		}
	}
}

func (w *Worker) Enqueue(event RequestEvent) {
	if w.closed.Load() {
		return
	}
	select {
	case w.eventChan <- event:
	default:
		w.logger.WithField("requestID", event.RequestID).
			Warn("metrics queue is full, dropping event")
	}
}

// Shutdown stops accepting events and drains the queue.
func (w *Worker) Shutdown() {
	if w.closed.Swap(true) {
		return
	}
	close(w.eventChan)
	w.wg.Wait()
	w.logger.Info("metrics workers stopped")
}
