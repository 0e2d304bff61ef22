package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"studiogate/pkg/domain"
)

// MemoryProvider is an in-process identity provider used in development and
// tests. It mirrors the external provider's contract: sequential delivery per
// subscriber, the current identity replayed on subscription, cached tokens
// served unless a refresh is forced, and the account-creation side effect of
// switching the active session to the newly created identity.
type MemoryProvider struct {
	issuer *TokenIssuer

	mu       sync.Mutex
	notifyMu sync.Mutex

	current     *Identity
	subscribers map[int]func(*Identity)
	nextSubID   int
	cached      map[domain.SubjectID]Token
	refreshErr  error
}

func NewMemoryProvider(issuer *TokenIssuer) *MemoryProvider {
	return &MemoryProvider{
		issuer:      issuer,
		subscribers: make(map[int]func(*Identity)),
		cached:      make(map[domain.SubjectID]Token),
	}
}

// Subscribe registers an observer and immediately delivers the current
// identity, matching the provider contract.
func (p *MemoryProvider) Subscribe(onChange func(*Identity)) (unsubscribe func()) {
	p.mu.Lock()
	subID := p.nextSubID
	p.nextSubID++
	p.subscribers[subID] = onChange
	current := p.current
	p.mu.Unlock()

	p.notifyMu.Lock()
	onChange(cloneIdentity(current))
	p.notifyMu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, subID)
	}
}

// SignIn makes ident the active provider session and notifies subscribers.
func (p *MemoryProvider) SignIn(ident Identity) {
	p.setCurrent(&ident)
}

// SignOut ends the active provider session.
func (p *MemoryProvider) SignOut(ctx context.Context) error {
	p.setCurrent(nil)
	return nil
}

// CreateIdentity provisions a new provider identity. Like the real provider,
// account creation switches the active session to the new identity as a side
// effect; the reconciler is expected to absorb that.
func (p *MemoryProvider) CreateIdentity(email, displayName string) Identity {
	ident := Identity{
		SubjectID:   domain.SubjectID("uid_" + uuid.NewString()),
		Email:       email,
		DisplayName: displayName,
	}
	p.setCurrent(&ident)
	return ident
}

// Refresh returns a session token for ident. Unless forced, a previously
// issued token is served from cache even if close to expiry, reproducing the
// staleness the reconciler's forced refresh exists to bypass.
func (p *MemoryProvider) Refresh(ctx context.Context, ident Identity, forceBypassCache bool) (Token, error) {
	p.mu.Lock()
	refreshErr := p.refreshErr
	cached, hasCached := p.cached[ident.SubjectID]
	p.mu.Unlock()

	if refreshErr != nil {
		return Token{}, refreshErr
	}
	if !forceBypassCache && hasCached {
		return cached, nil
	}

	token, err := p.issuer.Issue(ident.SubjectID)
	if err != nil {
		return Token{}, err
	}

	p.mu.Lock()
	p.cached[ident.SubjectID] = token
	p.mu.Unlock()
	return token, nil
}

// SetRefreshError injects a refresh failure; pass nil to clear.
func (p *MemoryProvider) SetRefreshError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshErr = err
}

// Current returns the active provider identity, or nil when signed out.
func (p *MemoryProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneIdentity(p.current)
}

func (p *MemoryProvider) setCurrent(ident *Identity) {
	p.mu.Lock()
	p.current = ident
	subs := make([]func(*Identity), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	// notifyMu serializes fan-out so every subscriber observes identity
	// changes in a single order, without holding the state lock during
	// callbacks.
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	for _, fn := range subs {
		fn(cloneIdentity(ident))
	}
}

func cloneIdentity(ident *Identity) *Identity {
	if ident == nil {
		return nil
	}
	copied := *ident
	return &copied
}
