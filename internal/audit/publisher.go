package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiogate_audit_events_published_total",
		Help: "Audit events accepted into the pipeline, by category.",
	}, []string{"category"})

	droppedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studiogate_audit_events_dropped_total",
		Help: "Audit events dropped because the pipeline buffer was full.",
	})
)

const defaultBufferSize = 256

// Publisher accepts audit events from domain logic and hands them to the
// background worker over a bounded channel. Emit never blocks the caller;
// when the buffer is full the event is dropped and counted.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger, bufferSize int) *Publisher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Publisher{
		inbox:  make(chan Event, bufferSize),
		logger: logger,
	}
}

// Inbox exposes the consumer side of the pipeline for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = AuditEvent(event.Action).Category()
	}

	select {
	case p.inbox <- event:
		publishedEvents.WithLabelValues(string(event.Category)).Inc()
	default:
		droppedEvents.Inc()
		p.logger.WarnContext(ctx, "audit pipeline full, dropping event",
			slog.String("action", event.Action),
			slog.String("subject_id", event.SubjectID.String()))
	}
}
