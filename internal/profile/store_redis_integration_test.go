//go:build integration

package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"studiogate/internal/profile"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/sentinel"
	"studiogate/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *profile.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = profile.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) memberProfile(subjectID string) profile.Profile {
	start := domain.Date{Year: 2024, Month: 9, Day: 6}
	return profile.Profile{
		SubjectID:        domain.SubjectID(subjectID),
		Role:             domain.RoleMember,
		Name:             "Jamie Rivera",
		Email:            "jamie@studio.test",
		MembershipStatus: profile.MembershipStatusActive,
		CurrentPackageID: "pkg-30d",
		PackageStart:     &start,
	}
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	p := s.memberProfile("uid_a")
	s.Require().NoError(s.store.Set(ctx, p))

	got, err := s.store.Get(ctx, "uid_a")
	s.Require().NoError(err)
	s.Equal(p.SubjectID, got.SubjectID)
	s.Equal(p.Role, got.Role)
	s.Equal("2024-09-06", got.PackageStart.String())
}

func (s *RedisStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "uid_missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestUpdatePatches() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, s.memberProfile("uid_a")))

	status := profile.MembershipStatusInactive
	updated, err := s.store.Update(ctx, "uid_a", profile.Patch{MembershipStatus: &status})
	s.Require().NoError(err)
	s.Equal(profile.MembershipStatusInactive, updated.MembershipStatus)

	got, err := s.store.Get(ctx, "uid_a")
	s.Require().NoError(err)
	s.Equal(profile.MembershipStatusInactive, got.MembershipStatus)
}

func (s *RedisStoreSuite) TestRejectsForeignDocuments() {
	ctx := context.Background()
	// Simulate a document written by another tool with an unknown role.
	s.Require().NoError(s.redis.Client.Set(ctx,
		"profile:subject:uid_bad",
		`{"subject_id":"uid_bad","role":"owner"}`, 0).Err())

	_, err := s.store.Get(ctx, "uid_bad")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, s.memberProfile("uid_a")))
	s.Require().NoError(s.store.Delete(ctx, "uid_a"))
	s.ErrorIs(s.store.Delete(ctx, "uid_a"), sentinel.ErrNotFound)
}
