package profile

import (
	"context"

	"studiogate/pkg/domain"
)

// Store is the profile document store contract. Implementations return
// sentinel.ErrNotFound for missing subjects and reject malformed documents
// on both reads and writes.
type Store interface {
	Get(ctx context.Context, subjectID domain.SubjectID) (*Profile, error)
	Set(ctx context.Context, p Profile) error
	Update(ctx context.Context, subjectID domain.SubjectID, patch Patch) (*Profile, error)
	Delete(ctx context.Context, subjectID domain.SubjectID) error
}
