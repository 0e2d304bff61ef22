package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"studiogate/internal/audit"
	"studiogate/internal/identity"
	"studiogate/internal/profile"
	"studiogate/pkg/domain"
	"studiogate/pkg/platform/sentinel"
)

//go:generate mockgen -source=reconciler.go -destination=mocks/mocks.go -package=mocks ProfileStore,TokenVerifier

type ProfileStore interface {
	Get(ctx context.Context, subjectID domain.SubjectID) (*profile.Profile, error)
}

// TokenVerifier cross-checks a refreshed token against the identity it was
// refreshed for. A subject mismatch means the provider served a token for a
// different session and is treated as a refresh failure.
type TokenVerifier interface {
	Verify(raw string) (domain.SubjectID, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

const eventQueueSize = 64

type event struct {
	ident *identity.Identity
	// explicit marks a user-initiated sign-out, the only path that clears
	// the latched admin session.
	explicit bool
}

// Reconciler turns the provider's identity-change stream into the single
// session of record. Events are processed strictly sequentially by one
// Run goroutine; overlapping reconciliations would race on the latched
// admin session and corrupt the preservation rule.
type Reconciler struct {
	provider identity.Provider
	profiles ProfileStore
	verifier TokenVerifier

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *Metrics
	tracer         trace.Tracer
	now            func() time.Time

	events chan event
	reload chan struct{}

	mu        sync.RWMutex
	current   *Session
	state     State
	lastAdmin *Session
	torndown  bool

	obsMu        sync.Mutex
	observers    map[int]func(*Session)
	nextObserver int
}

type Option func(r *Reconciler)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(r *Reconciler) {
		r.auditPublisher = pub
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithTokenVerifier enables the refreshed-token subject cross-check.
func WithTokenVerifier(v TokenVerifier) Option {
	return func(r *Reconciler) {
		r.verifier = v
	}
}

// WithClock overrides the wall clock for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

func NewReconciler(provider identity.Provider, profiles ProfileStore, opts ...Option) *Reconciler {
	r := &Reconciler{
		provider:  provider,
		profiles:  profiles,
		logger:    slog.Default(),
		tracer:    otel.Tracer("studiogate/session"),
		now:       time.Now,
		events:    make(chan event, eventQueueSize),
		reload:    make(chan struct{}, 1),
		state:     StateUnauthenticated,
		observers: make(map[int]func(*Session)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run subscribes to the provider and consumes events until ctx is done.
// It is the only goroutine that mutates session state.
func (r *Reconciler) Run(ctx context.Context) error {
	unsubscribe := r.provider.Subscribe(r.enqueue)
	defer func() {
		unsubscribe()
		r.mu.Lock()
		r.torndown = true
		r.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			r.reconcile(ctx, ev)
		}
	}
}

// enqueue is called from the provider's notification path. It never blocks:
// blocking here would stall the provider's delivery to other subscribers.
func (r *Reconciler) enqueue(ident *identity.Identity) {
	r.mu.RLock()
	torndown := r.torndown
	r.mu.RUnlock()
	if torndown {
		return
	}

	select {
	case r.events <- event{ident: ident}:
	default:
		r.metrics.incEventsDropped()
		r.logger.Warn("reconcile queue full, dropping provider event")
	}
}

// Current returns a snapshot of the session of record, nil when signed out.
func (r *Reconciler) Current() *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.clone()
}

// State returns the reconciler's current lifecycle state.
func (r *Reconciler) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Reload exposes the fatal-failure signal. A receive means the client must
// fully re-establish its state, not just fetch a new token.
func (r *Reconciler) Reload() <-chan struct{} {
	return r.reload
}

// Subscribe registers an observer notified with a session snapshot after
// every settled transition. The returned function releases the observer.
func (r *Reconciler) Subscribe(fn func(*Session)) func() {
	r.obsMu.Lock()
	id := r.nextObserver
	r.nextObserver++
	r.observers[id] = fn
	r.obsMu.Unlock()

	return func() {
		r.obsMu.Lock()
		delete(r.observers, id)
		r.obsMu.Unlock()
	}
}

// SignOut performs a user-initiated sign-out. It tears down the provider
// session and queues the one event allowed to clear the admin latch.
func (r *Reconciler) SignOut(ctx context.Context) error {
	if err := r.provider.SignOut(ctx); err != nil {
		return err
	}
	select {
	case r.events <- event{ident: nil, explicit: true}:
	default:
		r.metrics.incEventsDropped()
		r.logger.Warn("reconcile queue full, dropping explicit sign-out event")
	}
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context, ev event) {
	ctx, span := r.tracer.Start(ctx, "session.Reconcile")
	defer span.End()

	if ev.ident == nil {
		span.SetAttributes(attribute.Bool("explicit_sign_out", ev.explicit))
		r.handleSignOut(ctx, ev.explicit)
		r.notify()
		return
	}

	span.SetAttributes(attribute.String("subject_id", ev.ident.SubjectID.String()))
	r.handleSignIn(ctx, ev.ident)
	r.notify()
}

func (r *Reconciler) handleSignOut(ctx context.Context, explicit bool) {
	r.mu.Lock()
	hadSession := r.current != nil
	r.current = nil
	r.state = StateUnauthenticated
	// The latch survives implicit sign-out noise; only the user's own
	// sign-out releases it.
	if explicit {
		r.lastAdmin = nil
	}
	r.mu.Unlock()

	r.metrics.setActive(false)
	if hadSession || explicit {
		r.metrics.incSignOuts()
		r.logAudit(ctx, audit.EventSignedOut, "", "", "")
	}
}

func (r *Reconciler) handleSignIn(ctx context.Context, ident *identity.Identity) {
	r.setState(StateTokenVerifying)

	token, err := r.provider.Refresh(ctx, *ident, true)
	if err == nil && r.verifier != nil {
		var subject domain.SubjectID
		subject, err = r.verifier.Verify(token.Raw)
		if err == nil && subject != ident.SubjectID {
			err = errors.New("refreshed token subject does not match identity")
		}
	}
	if err != nil {
		r.failSession(ctx, ident, err)
		return
	}

	r.setState(StateProfileResolving)

	prof, err := r.profiles.Get(ctx, ident.SubjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			r.resolveMissingProfile(ctx, ident)
			return
		}
		// A store outage is not evidence about the subject; leave the
		// session of record as it was.
		r.logger.ErrorContext(ctx, "profile lookup failed",
			slog.String("subject_id", ident.SubjectID.String()),
			slog.String("error", err.Error()))
		r.logAudit(ctx, audit.EventProfileResolveFail, ident.SubjectID, "", err.Error())
		r.restoreSettledState()
		return
	}

	sess := &Session{
		Identity:      *ident,
		Profile:       *prof,
		Device:        identity.DeviceName(ident.UserAgent),
		EstablishedAt: r.now(),
	}

	r.mu.Lock()
	r.current = sess
	r.state = StateAuthenticated
	if prof.Role == domain.RoleAdmin {
		r.lastAdmin = sess.clone()
	}
	r.mu.Unlock()

	r.metrics.setActive(true)
	r.metrics.incSignIns()
	r.logAudit(ctx, audit.EventSessionEstablished, ident.SubjectID, string(prof.Role), "")
}

// resolveMissingProfile disambiguates a sign-in with no profile. The
// admin-preservation rule runs first: if an admin session is latched for a
// different subject, this event is provisioning noise from the provider
// switching sessions mid-flow, and the admin session is restored untouched.
// Getting this ordering backwards signs administrators out every time they
// create a member.
func (r *Reconciler) resolveMissingProfile(ctx context.Context, ident *identity.Identity) {
	r.mu.Lock()
	latched := r.lastAdmin
	if latched != nil && latched.SubjectID() != ident.SubjectID {
		r.current = latched.clone()
		r.state = StateAuthenticated
		r.mu.Unlock()

		r.metrics.setActive(true)
		r.metrics.incRestorations()
		r.logAudit(ctx, audit.EventSessionRestored, latched.SubjectID(), string(domain.RoleAdmin),
			"transient identity "+ident.SubjectID.String()+" had no profile")
		return
	}

	// Genuinely incomplete signup: no session survives and the provider
	// session is torn down.
	r.current = nil
	r.lastAdmin = nil
	r.state = StateUnauthenticated
	r.mu.Unlock()

	r.metrics.setActive(false)
	r.metrics.incSetupIncomplete()
	r.logAudit(ctx, audit.EventSessionCleared, ident.SubjectID, "", "account setup incomplete")

	if err := r.provider.SignOut(ctx); err != nil {
		r.logger.ErrorContext(ctx, "provider sign-out failed",
			slog.String("subject_id", ident.SubjectID.String()),
			slog.String("error", err.Error()))
	}
}

// failSession handles a fatal token refresh failure. The session cannot be
// repaired in place: a stale client must re-establish its runtime state, so
// a full reload is signalled.
func (r *Reconciler) failSession(ctx context.Context, ident *identity.Identity, cause error) {
	r.mu.Lock()
	r.current = nil
	r.lastAdmin = nil
	r.state = StateUnauthenticated
	r.mu.Unlock()

	r.metrics.setActive(false)
	r.metrics.incRefreshFailures()
	r.logAudit(ctx, audit.EventTokenRefreshFailed, ident.SubjectID, "", cause.Error())

	if err := r.provider.SignOut(ctx); err != nil {
		r.logger.ErrorContext(ctx, "provider sign-out failed",
			slog.String("subject_id", ident.SubjectID.String()),
			slog.String("error", err.Error()))
	}

	select {
	case r.reload <- struct{}{}:
	default:
	}
	r.logAudit(ctx, audit.EventReloadRequired, ident.SubjectID, "", "re-authentication required")
}

// restoreSettledState rolls the lifecycle state back to match whatever
// session survived an aborted reconciliation.
func (r *Reconciler) restoreSettledState() {
	r.mu.Lock()
	if r.current != nil {
		r.state = StateAuthenticated
	} else {
		r.state = StateUnauthenticated
	}
	r.mu.Unlock()
}

func (r *Reconciler) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

func (r *Reconciler) notify() {
	snapshot := r.Current()

	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for _, fn := range r.observers {
		fn(snapshot.clone())
	}
}

func (r *Reconciler) logAudit(ctx context.Context, action audit.AuditEvent, subjectID domain.SubjectID, role, reason string) {
	args := []any{
		slog.String("event", string(action)),
		slog.String("log_type", "audit"),
	}
	if subjectID != "" {
		args = append(args, slog.String("subject_id", subjectID.String()))
	}
	if role != "" {
		args = append(args, slog.String("role", role))
	}
	if reason != "" {
		args = append(args, slog.String("reason", reason))
	}
	if r.logger != nil {
		r.logger.InfoContext(ctx, string(action), args...)
	}
	if r.auditPublisher == nil {
		return
	}
	r.auditPublisher.Emit(ctx, audit.Event{
		SubjectID: subjectID,
		Action:    string(action),
		Reason:    reason,
	})
}
