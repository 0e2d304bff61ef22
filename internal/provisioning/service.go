// Package provisioning implements the admin flow that creates member
// accounts. Creating a provider identity switches the active provider
// session to the new identity as a side effect; the session reconciler's
// preservation rule absorbs that, so this service never touches session
// state itself.
package provisioning

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studiogate/internal/audit"
	"studiogate/internal/catalog"
	"studiogate/internal/identity"
	"studiogate/internal/profile"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/email"
	"studiogate/pkg/platform/sentinel"
	"studiogate/pkg/requestcontext"
	"studiogate/pkg/secrets"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks IdentityCreator,ProfileWriter,PackageCatalog

// IdentityCreator provisions identities at the provider. The returned
// identity becomes the provider's active session.
type IdentityCreator interface {
	CreateIdentity(email, displayName string) identity.Identity
}

type ProfileWriter interface {
	Set(ctx context.Context, p profile.Profile) error
}

type PackageCatalog interface {
	GetPackage(ctx context.Context, id domain.PackageID) (*catalog.MembershipPackage, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

const defaultInviteTTL = 72 * time.Hour

// ProvisionRequest describes the member an admin wants to create.
type ProvisionRequest struct {
	Email        string
	Name         string
	PackageID    domain.PackageID
	PackageStart domain.Date
	// ActorSubjectID is the admin performing the operation, for the audit
	// trail only.
	ActorSubjectID domain.SubjectID
}

// ProvisionResult carries the created profile and the one-time invite code.
// The code appears here and nowhere else.
type ProvisionResult struct {
	Profile         profile.Profile
	InviteCode      string
	InviteExpiresAt time.Time
}

// Service orchestrates member provisioning and invite redemption.
type Service struct {
	provider       IdentityCreator
	profiles       ProfileWriter
	packages       PackageCatalog
	invites        InviteStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	inviteTTL      time.Duration
	now            func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = pub
	}
}

func WithInviteTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.inviteTTL = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(provider IdentityCreator, profiles ProfileWriter, packages PackageCatalog, invites InviteStore, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		profiles:  profiles,
		packages:  packages,
		invites:   invites,
		logger:    slog.Default(),
		inviteTTL: defaultInviteTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProvisionMember creates the provider identity, writes the member profile,
// and issues a one-time invite code for the member's first sign-in.
func (s *Service) ProvisionMember(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	addr := strings.TrimSpace(req.Email)
	if addr == "" || !strings.Contains(addr, "@") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a valid member email is required")
	}

	pkg, err := s.packages.GetPackage(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown package "+req.PackageID.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve package")
	}
	if req.PackageStart.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "package start date is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email.DeriveDisplayName(addr)
	}

	ident := s.provider.CreateIdentity(addr, name)

	member := profile.Profile{
		SubjectID:        ident.SubjectID,
		Role:             domain.RoleMember,
		Name:             name,
		Email:            addr,
		MembershipStatus: profile.MembershipStatusActive,
		CurrentPackageID: pkg.ID,
		PackageStart:     &req.PackageStart,
	}
	if err := s.profiles.Set(ctx, member); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store member profile")
	}

	code, err := secrets.Generate()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate invite code")
	}
	hash, err := secrets.Hash(code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash invite code")
	}

	expiresAt := s.now().Add(s.inviteTTL)
	if err := s.invites.Save(ctx, Invite{
		SubjectID: ident.SubjectID,
		Email:     addr,
		CodeHash:  hash,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store invite")
	}

	s.logAudit(ctx, audit.EventMemberProvisioned, ident.SubjectID, req.ActorSubjectID, addr)

	return &ProvisionResult{
		Profile:         member,
		InviteCode:      code,
		InviteExpiresAt: expiresAt,
	}, nil
}

// RedeemInvite consumes a one-time invite code for a provisioned member.
func (s *Service) RedeemInvite(ctx context.Context, subjectID domain.SubjectID, code string) error {
	invite, err := s.invites.Get(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no invite for this member")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load invite")
	}
	if invite.Used {
		return dErrors.New(dErrors.CodeConflict, "invite code already used")
	}
	if s.now().After(invite.ExpiresAt) {
		return dErrors.New(dErrors.CodeForbidden, "invite code has expired")
	}
	if err := secrets.Verify(code, invite.CodeHash); err != nil {
		return err
	}
	if err := s.invites.MarkUsed(ctx, subjectID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark invite used")
	}

	s.logAudit(ctx, audit.EventInviteRedeemed, subjectID, "", invite.Email)
	return nil
}

func (s *Service) logAudit(ctx context.Context, action audit.AuditEvent, subjectID, actorID domain.SubjectID, memberEmail string) {
	args := []any{
		slog.String("event", string(action)),
		slog.String("log_type", "audit"),
		slog.String("subject_id", subjectID.String()),
	}
	if actorID != "" {
		args = append(args, slog.String("actor_id", actorID.String()))
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, slog.String("request_id", requestID))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	s.auditPublisher.Emit(ctx, audit.Event{
		SubjectID: subjectID,
		ActorID:   actorID.String(),
		Action:    string(action),
		Email:     memberEmail,
		RequestID: requestcontext.RequestID(ctx),
	})
}
