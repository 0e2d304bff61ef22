package eligibility

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"studiogate/internal/audit"
	"studiogate/internal/catalog"
	"studiogate/internal/profile"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/sentinel"
	"studiogate/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ProfileStore,PackageCatalog

type ProfileStore interface {
	Get(ctx context.Context, subjectID domain.SubjectID) (*profile.Profile, error)
}

type PackageCatalog interface {
	GetPackage(ctx context.Context, id domain.PackageID) (*catalog.MembershipPackage, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service resolves the member profile and package, runs the rule chain, and
// records the decision for observability.
type Service struct {
	profiles       ProfileStore
	packages       PackageCatalog
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *Metrics
	tracer         trace.Tracer
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

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the wall clock. Tests pin evaluation to a fixed day.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(profiles ProfileStore, packages PackageCatalog, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		packages: packages,
		logger:   slog.Default(),
		tracer:   otel.Tracer("studiogate/eligibility"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate decides whether the member may register for a class against the
// given package. A nil target evaluates as of today.
func (s *Service) Evaluate(ctx context.Context, subjectID domain.SubjectID, packageID domain.PackageID, target *domain.Date) (Decision, error) {
	ctx, span := s.tracer.Start(ctx, "eligibility.Evaluate",
		trace.WithAttributes(
			attribute.String("subject_id", subjectID.String()),
			attribute.String("package_id", packageID.String()),
		))
	defer span.End()

	started := s.now()
	defer func() { s.metrics.ObserveEvaluateLatency(s.now().Sub(started)) }()

	member, err := s.profiles.Get(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Decision{}, dErrors.New(dErrors.CodeNotFound, "member profile not found")
		}
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load member profile")
	}

	pkg, err := s.packages.GetPackage(ctx, packageID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Decision{}, dErrors.New(dErrors.CodeNotFound, "package not found")
		}
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load package")
	}

	decision, err := Evaluate(*member, *pkg, target, domain.DateOf(s.now()))
	if err != nil {
		return Decision{}, err
	}

	span.SetAttributes(attribute.String("reason", string(decision.Reason)))
	if decision.CanRegister {
		s.metrics.IncrementDecision("admit", string(decision.Reason))
		s.logAudit(ctx, string(audit.EventEligibilityAdmitted), subjectID, decision)
	} else {
		s.metrics.IncrementDecision("deny", string(decision.Reason))
		s.logAudit(ctx, string(audit.EventEligibilityDenied), subjectID, decision)
	}
	return decision, nil
}

func (s *Service) logAudit(ctx context.Context, event string, subjectID domain.SubjectID, decision Decision) {
	args := []any{
		slog.String("subject_id", subjectID.String()),
		slog.String("reason", string(decision.Reason)),
		slog.String("event", event),
		slog.String("log_type", "audit"),
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, slog.String("request_id", requestID))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	outcome := "deny"
	if decision.CanRegister {
		outcome = "admit"
	}
	s.auditPublisher.Emit(ctx, audit.Event{
		SubjectID: subjectID,
		Action:    event,
		Decision:  outcome,
		Reason:    string(decision.Reason),
		RequestID: requestcontext.RequestID(ctx),
	})
}
