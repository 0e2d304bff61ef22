package audit

import (
	"context"
	"log/slog"
)

// Sink receives every audit event after it has been persisted. Sinks are
// best-effort; a failing sink must not stall the pipeline.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations into
// domain code.
type Worker struct {
	store  Store
	sinks  []Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger, sinks ...Sink) *Worker {
	return &Worker{store: store, sinks: sinks, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
			for _, sink := range w.sinks {
				if err := sink.Publish(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "audit sink publish failed",
						slog.String("action", event.Action),
						slog.String("error", err.Error()))
				}
			}
		}
	}
}
