package profile

import (
	"context"
	"sync"

	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/sentinel"
)

// MemoryStore is an in-memory profile store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[domain.SubjectID]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[domain.SubjectID]Profile)}
}

func (s *MemoryStore) Get(ctx context.Context, subjectID domain.SubjectID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := p
	if p.PackageStart != nil {
		start := *p.PackageStart
		copied.PackageStart = &start
	}
	return &copied, nil
}

func (s *MemoryStore) Set(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.SubjectID] = p
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, subjectID domain.SubjectID, patch Patch) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	patch.apply(&p)
	if err := p.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "patch produces invalid profile")
	}
	s.profiles[subjectID] = p

	copied := p
	if p.PackageStart != nil {
		start := *p.PackageStart
		copied.PackageStart = &start
	}
	return &copied, nil
}

func (s *MemoryStore) Delete(ctx context.Context, subjectID domain.SubjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[subjectID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, subjectID)
	return nil
}
