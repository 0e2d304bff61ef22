package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"studiogate/internal/catalog"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *catalog.MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = catalog.NewMemoryStore()
}

func (s *MemoryStoreSuite) TestPutAndGet() {
	ctx := context.Background()
	pkg := catalog.MembershipPackage{ID: "pkg-30d", Name: "30-Day Unlimited", DurationDays: 30, PriceCents: 14900}
	s.Require().NoError(s.store.PutPackage(ctx, pkg))

	got, err := s.store.GetPackage(ctx, "pkg-30d")
	s.Require().NoError(err)
	s.Equal(pkg, *got)
}

func (s *MemoryStoreSuite) TestGetMissing() {
	_, err := s.store.GetPackage(context.Background(), "pkg-missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestRejectsInvalidDuration() {
	err := s.store.PutPackage(context.Background(), catalog.MembershipPackage{ID: "pkg-zero", DurationDays: 0})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *MemoryStoreSuite) TestListIsSorted() {
	ctx := context.Background()
	s.Require().NoError(catalog.Seed(ctx, s.store))

	got, err := s.store.ListPackages(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, len(catalog.DefaultPackages))
	for i := 1; i < len(got); i++ {
		s.Less(got[i-1].ID, got[i].ID)
	}
}

func (s *MemoryStoreSuite) TestSeedIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(catalog.Seed(ctx, s.store))
	s.Require().NoError(catalog.Seed(ctx, s.store))

	got, err := s.store.ListPackages(ctx)
	s.Require().NoError(err)
	s.Len(got, len(catalog.DefaultPackages))
}
