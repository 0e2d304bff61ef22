package httptransport_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"studiogate/internal/eligibility"
	"studiogate/internal/identity"
	"studiogate/internal/profile"
	"studiogate/internal/provisioning"
	"studiogate/internal/session"
	httptransport "studiogate/internal/transport/http"
	"studiogate/internal/transport/http/mocks"
	"studiogate/internal/validity"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	sessions     *mocks.MockSessionSource
	eligibility  *mocks.MockEligibilityService
	provisioning *mocks.MockProvisioningService
	router       http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sessions = mocks.NewMockSessionSource(s.ctrl)
	s.eligibility = mocks.NewMockEligibilityService(s.ctrl)
	s.provisioning = mocks.NewMockProvisioningService(s.ctrl)

	logger := slog.New(slog.DiscardHandler)
	s.router = httptransport.NewRouter(httptransport.RouterConfig{
		Sessions:    httptransport.NewSessionHandler(s.sessions, logger),
		Eligibility: httptransport.NewEligibilityHandler(s.eligibility, logger),
		Admin:       httptransport.NewAdminHandler(s.provisioning, s.sessions, logger),
	})
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) adminSession() *session.Session {
	return &session.Session{
		Identity: identity.Identity{SubjectID: "uid_admin", Email: "admin@studio.test"},
		Profile: profile.Profile{
			SubjectID: "uid_admin",
			Role:      domain.RoleAdmin,
			Name:      "Alex Admin",
			Email:     "admin@studio.test",
		},
		Device:        "Chrome on Mac OS X",
		EstablishedAt: time.Date(2024, time.September, 20, 9, 0, 0, 0, time.UTC),
	}
}

func (s *HandlerSuite) TestGetSessionAuthenticated() {
	s.sessions.EXPECT().Current().Return(s.adminSession())
	s.sessions.EXPECT().State().Return(session.StateAuthenticated)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/session", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	var body map[string]any
	testutil.DecodeJSON(s.T(), rr, &body)
	s.Equal(true, body["authenticated"])
	s.Equal("uid_admin", body["subject_id"])
	s.Equal("admin", body["role"])
	s.Equal("Chrome on Mac OS X", body["device"])
}

func (s *HandlerSuite) TestGetSessionUnauthenticated() {
	s.sessions.EXPECT().Current().Return(nil)
	s.sessions.EXPECT().State().Return(session.StateUnauthenticated)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/session", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	var body map[string]any
	testutil.DecodeJSON(s.T(), rr, &body)
	s.Equal(false, body["authenticated"])
	s.Equal("unauthenticated", body["state"])
}

func (s *HandlerSuite) TestSignOut() {
	s.sessions.EXPECT().Current().Return(s.adminSession())
	s.sessions.EXPECT().SignOut(gomock.Any()).Return(nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/signout", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *HandlerSuite) TestSignOutWithoutSession() {
	s.sessions.EXPECT().Current().Return(nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/signout", nil)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *HandlerSuite) TestEvaluateEligibility() {
	start := mustDate("2024-09-06")
	expiry := mustDate("2024-10-05")
	s.eligibility.EXPECT().
		Evaluate(gomock.Any(), domain.SubjectID("uid_member"), domain.PackageID("pkg-30d"), gomock.Nil()).
		Return(eligibility.Decision{
			CanRegister: true,
			Reason:      eligibility.ReasonAdmitted,
			Message:     "Valid through 2024-10-05.",
			Validity:    &validity.Window{Start: start, Expiry: expiry, DaysRemaining: 15},
		}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/eligibility/evaluate",
		map[string]string{"subject_id": "uid_member", "package_id": "pkg-30d"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	var body map[string]any
	testutil.DecodeJSON(s.T(), rr, &body)
	s.Equal(true, body["can_register"])
	s.Equal("admitted", body["reason"])
}

func (s *HandlerSuite) TestEvaluateWithTargetDate() {
	target := mustDate("2024-10-10")
	s.eligibility.EXPECT().
		Evaluate(gomock.Any(), domain.SubjectID("uid_member"), domain.PackageID("pkg-30d"), &target).
		Return(eligibility.Decision{Reason: eligibility.ReasonExpiresBeforeClassDate}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/eligibility/evaluate",
		map[string]string{"subject_id": "uid_member", "package_id": "pkg-30d", "date": "2024-10-10"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	var body map[string]any
	testutil.DecodeJSON(s.T(), rr, &body)
	s.Equal(false, body["can_register"])
}

func (s *HandlerSuite) TestEvaluateRejectsMalformedDate() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/eligibility/evaluate",
		map[string]string{"subject_id": "uid_member", "package_id": "pkg-30d", "date": "10/05/2024"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestEvaluateUnknownMember() {
	s.eligibility.EXPECT().
		Evaluate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(eligibility.Decision{}, dErrors.New(dErrors.CodeNotFound, "member profile not found"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/eligibility/evaluate",
		map[string]string{"subject_id": "uid_ghost", "package_id": "pkg-30d"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestProvisionMemberAsAdmin() {
	s.sessions.EXPECT().Current().Return(s.adminSession())
	start := mustDate("2024-09-06")
	s.provisioning.EXPECT().
		ProvisionMember(gomock.Any(), gomock.Cond(func(req provisioning.ProvisionRequest) bool {
			return req.Email == "jamie@studio.test" &&
				req.PackageID == "pkg-30d" &&
				req.ActorSubjectID == "uid_admin"
		})).
		Return(&provisioning.ProvisionResult{
			Profile: profile.Profile{
				SubjectID:        "uid_new",
				Role:             domain.RoleMember,
				Name:             "Jamie",
				Email:            "jamie@studio.test",
				MembershipStatus: profile.MembershipStatusActive,
				CurrentPackageID: "pkg-30d",
				PackageStart:     &start,
			},
			InviteCode:      "code-123",
			InviteExpiresAt: time.Now().Add(72 * time.Hour),
		}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/members", map[string]string{
		"email":         "jamie@studio.test",
		"name":          "Jamie",
		"package_id":    "pkg-30d",
		"package_start": "2024-09-06",
	})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusCreated, rr.Code)
	var body map[string]any
	testutil.DecodeJSON(s.T(), rr, &body)
	s.Equal("uid_new", body["subject_id"])
	s.Equal("code-123", body["invite_code"])
}

func (s *HandlerSuite) TestProvisionRequiresAuthentication() {
	s.sessions.EXPECT().Current().Return(nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/members", map[string]string{
		"email": "jamie@studio.test", "package_id": "pkg-30d", "package_start": "2024-09-06",
	})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *HandlerSuite) TestProvisionRequiresAdminRole() {
	memberSession := s.adminSession()
	memberSession.Profile.Role = domain.RoleMember

	s.sessions.EXPECT().Current().Return(memberSession)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/members", map[string]string{
		"email": "jamie@studio.test", "package_id": "pkg-30d", "package_start": "2024-09-06",
	})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusForbidden, rr.Code)
}

func (s *HandlerSuite) TestRedeemInvite() {
	s.provisioning.EXPECT().
		RedeemInvite(gomock.Any(), domain.SubjectID("uid_new"), "code-123").
		Return(nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/invites/redeem",
		map[string]string{"subject_id": "uid_new", "code": "code-123"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *HandlerSuite) TestRedeemInviteConflict() {
	s.provisioning.EXPECT().
		RedeemInvite(gomock.Any(), domain.SubjectID("uid_new"), "code-123").
		Return(dErrors.New(dErrors.CodeConflict, "invite code already used"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/invites/redeem",
		map[string]string{"subject_id": "uid_new", "code": "code-123"})
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusConflict, rr.Code)
}

func (s *HandlerSuite) TestHealthz() {
	router := httptransport.NewRouter(httptransport.RouterConfig{
		HealthChecks: []httptransport.HealthCheck{
			{Name: "store", Check: func(ctx context.Context) error { return nil }},
		},
	})

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil)
	rr := testutil.DoRequest(router, req)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *HandlerSuite) TestHealthzDegraded() {
	router := httptransport.NewRouter(httptransport.RouterConfig{
		HealthChecks: []httptransport.HealthCheck{
			{Name: "store", Check: func(ctx context.Context) error { return errors.New("down") }},
		},
	})

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil)
	rr := testutil.DoRequest(router, req)

	s.Equal(http.StatusServiceUnavailable, rr.Code)
}

func mustDate(raw string) domain.Date {
	d, err := domain.ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}
