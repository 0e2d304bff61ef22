package audit

import "context"

// Store is an append-only audit sink with read access for admin surfaces.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
