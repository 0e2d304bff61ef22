// Package identity models the principal surfaced by the external identity
// provider and the contracts the provider exposes to the rest of the system.
package identity

import (
	"time"

	"studiogate/pkg/domain"
)

// Identity is the provider-issued credential for a sign-in. It is immutable
// once issued: a different principal means a new Identity value, never a
// mutation of this one.
type Identity struct {
	SubjectID   domain.SubjectID
	Email       string
	DisplayName string
	// UserAgent is captured at sign-in and feeds session device names. It is
	// advisory metadata, not part of the principal.
	UserAgent string
}

// Token is a provider-refreshed session token.
type Token struct {
	Raw       string
	ExpiresAt time.Time
}
