package domain

import dErrors "studiogate/pkg/domain-errors"

// Role is the closed set of roles a profile may carry. Documents with any
// other role value are rejected at the store boundary rather than coerced.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) String() string { return string(r) }

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// ParseRole validates a role read from an external document.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleMember:
		return Role(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+raw)
}
