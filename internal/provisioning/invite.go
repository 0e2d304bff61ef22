package provisioning

import (
	"context"
	"sync"
	"time"

	"studiogate/pkg/domain"
	"studiogate/pkg/platform/sentinel"
)

// Invite is a one-time signup code issued during provisioning. Only the
// bcrypt hash of the code is held; the plaintext is shown to the admin once.
type Invite struct {
	SubjectID domain.SubjectID
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
}

type InviteStore interface {
	Save(ctx context.Context, invite Invite) error
	Get(ctx context.Context, subjectID domain.SubjectID) (*Invite, error)
	MarkUsed(ctx context.Context, subjectID domain.SubjectID) error
}

// MemoryInviteStore is an in-memory invite store for development and tests.
type MemoryInviteStore struct {
	mu      sync.Mutex
	invites map[domain.SubjectID]Invite
}

func NewMemoryInviteStore() *MemoryInviteStore {
	return &MemoryInviteStore{invites: make(map[domain.SubjectID]Invite)}
}

func (s *MemoryInviteStore) Save(_ context.Context, invite Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invites[invite.SubjectID] = invite
	return nil
}

func (s *MemoryInviteStore) Get(_ context.Context, subjectID domain.SubjectID) (*Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invite, ok := s.invites[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &invite, nil
}

func (s *MemoryInviteStore) MarkUsed(_ context.Context, subjectID domain.SubjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invite, ok := s.invites[subjectID]
	if !ok {
		return sentinel.ErrNotFound
	}
	invite.Used = true
	s.invites[subjectID] = invite
	return nil
}
