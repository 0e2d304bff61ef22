package audit

import (
	"time"

	"studiogate/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring.
	// Examples: token refresh failures, forced sign-outs, subject mismatches.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. Examples: session establishment, eligibility admissions.
	CategoryOperations EventCategory = "operations"

	// CategoryMembership covers events with business significance for the
	// studio. Examples: member provisioning, eligibility denials.
	CategoryMembership EventCategory = "membership"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	SubjectID domain.SubjectID
	// ActorID tracks who performed the action when different from SubjectID,
	// such as an admin provisioning a member account.
	ActorID   string
	Action    string
	Decision  string
	Reason    string
	Email     string
	RequestID string
	Device    string
}

type AuditEvent string

const (
	// Session lifecycle events
	EventSessionEstablished AuditEvent = "session_established"
	EventSessionRestored    AuditEvent = "session_restored"
	EventSessionCleared     AuditEvent = "session_cleared"
	EventSignedOut          AuditEvent = "signed_out"
	EventTokenRefreshFailed AuditEvent = "token_refresh_failed"
	EventReloadRequired     AuditEvent = "reload_required"
	EventProfileResolveFail AuditEvent = "profile_resolve_failed"

	// Eligibility events
	EventEligibilityAdmitted AuditEvent = "eligibility_admitted"
	EventEligibilityDenied   AuditEvent = "eligibility_denied"

	// Provisioning events
	EventMemberProvisioned AuditEvent = "member_provisioned"
	EventInviteRedeemed    AuditEvent = "invite_redeemed"
)

// Category returns the routing category for a known event name, defaulting
// to operations for anything unrecognized.
func (e AuditEvent) Category() EventCategory {
	switch e {
	case EventTokenRefreshFailed, EventReloadRequired, EventSignedOut:
		return CategorySecurity
	case EventEligibilityDenied, EventMemberProvisioned, EventInviteRedeemed:
		return CategoryMembership
	default:
		return CategoryOperations
	}
}
