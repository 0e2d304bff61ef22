// Package session maintains the single authoritative Session from the
// identity provider's asynchronous change notifications.
package session

import (
	"time"

	"studiogate/internal/identity"
	"studiogate/internal/profile"
	"studiogate/pkg/domain"
)

// State is the reconciler's position in its lifecycle. The intermediate
// states are observable while an event is being processed.
type State string

const (
	StateUnauthenticated  State = "unauthenticated"
	StateTokenVerifying   State = "token_verifying"
	StateProfileResolving State = "profile_resolving"
	StateAuthenticated    State = "authenticated"
)

// Session pairs a provider identity with its resolved profile. A Session is
// replaced on every reconciliation step, never mutated in place, and always
// pairs identity and profile of the same subject once reconciliation settles.
type Session struct {
	Identity      identity.Identity
	Profile       profile.Profile
	Device        string
	EstablishedAt time.Time
}

// SubjectID is the subject both halves of the session agree on.
func (s *Session) SubjectID() domain.SubjectID {
	return s.Identity.SubjectID
}

// Role is the authenticated role, from the profile side.
func (s *Session) Role() domain.Role {
	return s.Profile.Role
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool {
	return s.Profile.Role == domain.RoleAdmin
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Profile.PackageStart != nil {
		start := *s.Profile.PackageStart
		out.Profile.PackageStart = &start
	}
	return &out
}
