package identity

import "context"

// EventSource delivers identity-change notifications. The provider guarantees
// sequential delivery per subscriber and delivers at least the current
// identity on subscription. A nil Identity means "signed out".
type EventSource interface {
	Subscribe(onChange func(*Identity)) (unsubscribe func())
}

// TokenRefresher refreshes the provider session token for an identity.
// forceBypassCache must skip any cached token: a stale cached token is a
// known source of unknown-session failures downstream.
type TokenRefresher interface {
	Refresh(ctx context.Context, ident Identity, forceBypassCache bool) (Token, error)
}

// SessionTerminator ends the provider-side session for the active identity.
type SessionTerminator interface {
	SignOut(ctx context.Context) error
}

// Provider is the full identity-provider surface the reconciler consumes.
type Provider interface {
	EventSource
	TokenRefresher
	SessionTerminator
}
