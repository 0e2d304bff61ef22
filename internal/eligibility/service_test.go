package eligibility_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"studiogate/internal/audit"
	"studiogate/internal/catalog"
	"studiogate/internal/eligibility"
	"studiogate/internal/eligibility/mocks"
	"studiogate/internal/profile"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	profiles *mocks.MockProfileStore
	packages *mocks.MockPackageCatalog
	auditor  *mocks.MockAuditPublisher
	service  *eligibility.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.profiles = mocks.NewMockProfileStore(s.ctrl)
	s.packages = mocks.NewMockPackageCatalog(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)

	fixed := time.Date(2024, time.September, 20, 10, 0, 0, 0, time.UTC)
	s.service = eligibility.NewService(s.profiles, s.packages,
		eligibility.WithLogger(slog.New(slog.DiscardHandler)),
		eligibility.WithAuditPublisher(s.auditor),
		eligibility.WithClock(func() time.Time { return fixed }),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) memberProfile() *profile.Profile {
	start := date("2024-09-06")
	return &profile.Profile{
		SubjectID:        "uid_member",
		Role:             domain.RoleMember,
		MembershipStatus: profile.MembershipStatusActive,
		CurrentPackageID: "pkg-30d",
		PackageStart:     &start,
	}
}

func (s *ServiceSuite) TestAdmitEmitsAudit() {
	ctx := context.Background()
	s.profiles.EXPECT().Get(gomock.Any(), domain.SubjectID("uid_member")).Return(s.memberProfile(), nil)
	s.packages.EXPECT().GetPackage(gomock.Any(), domain.PackageID("pkg-30d")).
		Return(&catalog.MembershipPackage{ID: "pkg-30d", DurationDays: 30}, nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Cond(func(e audit.Event) bool {
		return e.Action == string(audit.EventEligibilityAdmitted) && e.Decision == "admit"
	}))

	decision, err := s.service.Evaluate(ctx, "uid_member", "pkg-30d", nil)
	s.Require().NoError(err)
	s.True(decision.CanRegister)
}

func (s *ServiceSuite) TestDenialEmitsAuditWithReason() {
	ctx := context.Background()
	member := s.memberProfile()
	member.MembershipStatus = profile.MembershipStatusInactive

	s.profiles.EXPECT().Get(gomock.Any(), domain.SubjectID("uid_member")).Return(member, nil)
	s.packages.EXPECT().GetPackage(gomock.Any(), domain.PackageID("pkg-30d")).
		Return(&catalog.MembershipPackage{ID: "pkg-30d", DurationDays: 30}, nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Cond(func(e audit.Event) bool {
		return e.Action == string(audit.EventEligibilityDenied) &&
			e.Reason == string(eligibility.ReasonInactiveMembership)
	}))

	decision, err := s.service.Evaluate(ctx, "uid_member", "pkg-30d", nil)
	s.Require().NoError(err)
	s.False(decision.CanRegister)
}

func (s *ServiceSuite) TestUnknownMember() {
	ctx := context.Background()
	s.profiles.EXPECT().Get(gomock.Any(), domain.SubjectID("uid_ghost")).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Evaluate(ctx, "uid_ghost", "pkg-30d", nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUnknownPackage() {
	ctx := context.Background()
	s.profiles.EXPECT().Get(gomock.Any(), domain.SubjectID("uid_member")).Return(s.memberProfile(), nil)
	s.packages.EXPECT().GetPackage(gomock.Any(), domain.PackageID("pkg-ghost")).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Evaluate(ctx, "uid_member", "pkg-ghost", nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestStoreFailureWrapsInternal() {
	ctx := context.Background()
	s.profiles.EXPECT().Get(gomock.Any(), domain.SubjectID("uid_member")).
		Return(nil, errors.New("connection reset"))

	_, err := s.service.Evaluate(ctx, "uid_member", "pkg-30d", nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
