package catalog

import (
	"context"
	"sort"
	"sync"

	"studiogate/pkg/domain"
	"studiogate/pkg/platform/sentinel"
)

// MemoryStore is an in-memory catalog for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	packages map[domain.PackageID]MembershipPackage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{packages: make(map[domain.PackageID]MembershipPackage)}
}

func (s *MemoryStore) GetPackage(ctx context.Context, id domain.PackageID) (*MembershipPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, ok := s.packages[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &pkg, nil
}

func (s *MemoryStore) PutPackage(ctx context.Context, pkg MembershipPackage) error {
	if err := pkg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[pkg.ID] = pkg
	return nil
}

func (s *MemoryStore) ListPackages(ctx context.Context) ([]MembershipPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MembershipPackage, 0, len(s.packages))
	for _, pkg := range s.packages {
		out = append(out, pkg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
