// Package eligibility decides whether a member may register for a class,
// either today or on a specific future date.
package eligibility

import (
	"fmt"

	"studiogate/internal/catalog"
	"studiogate/internal/profile"
	"studiogate/internal/validity"
	"studiogate/pkg/domain"
)

// Reason identifies why a decision came out the way it did. Reasons are
// stable strings; clients and the audit trail key off them.
type Reason string

const (
	ReasonAdmitted               Reason = "admitted"
	ReasonNoActivePackage        Reason = "no_active_package"
	ReasonPackageMismatch        Reason = "package_mismatch"
	ReasonPackageExpired         Reason = "package_expired"
	ReasonExpiresBeforeClassDate Reason = "expires_before_class_date"
	ReasonInactiveMembership     Reason = "inactive_membership"
)

// Decision is the outcome of an eligibility evaluation. Denials are ordinary
// data, not errors; they are expected, frequent outcomes.
type Decision struct {
	CanRegister bool             `json:"can_register"`
	Reason      Reason           `json:"reason"`
	Message     string           `json:"message"`
	Validity    *validity.Window `json:"validity,omitempty"`
}

// Evaluate applies the registration rule chain, short-circuiting on the
// first failing rule. Rule priority:
//  1. No active package on the profile.
//  2. Package mismatch. A mismatched package is never reported as expired.
//  3. Validity window against the target date (or today when absent). An
//     expired package is never reported as merely inactive.
//  4. Membership status, today-evaluations only. Whether a member may attend
//     on a future date is a purely temporal question.
//
// target selects the class date; nil means evaluate as of today.
func Evaluate(member profile.Profile, pkg catalog.MembershipPackage, target *domain.Date, today domain.Date) (Decision, error) {
	if !member.HasActivePackage() {
		return Decision{
			Reason:  ReasonNoActivePackage,
			Message: "No active package on file.",
		}, nil
	}

	if member.CurrentPackageID != pkg.ID {
		return Decision{
			Reason:  ReasonPackageMismatch,
			Message: fmt.Sprintf("Current package %s does not match %s.", member.CurrentPackageID, pkg.ID),
		}, nil
	}

	ref := today
	if target != nil {
		ref = *target
	}
	window, err := validity.Compute(*member.PackageStart, pkg.DurationDays, ref)
	if err != nil {
		return Decision{}, err
	}

	if window.Expired {
		if target != nil {
			return Decision{
				Reason:   ReasonExpiresBeforeClassDate,
				Message:  fmt.Sprintf("Package expires %s, before the class date %s.", window.Expiry, *target),
				Validity: &window,
			}, nil
		}
		daysSince := window.Expiry.DaysUntil(today)
		return Decision{
			Reason:   ReasonPackageExpired,
			Message:  fmt.Sprintf("Package expired %s (%d days ago).", window.Expiry, daysSince),
			Validity: &window,
		}, nil
	}

	if target == nil && member.MembershipStatus != profile.MembershipStatusActive {
		return Decision{
			Reason:   ReasonInactiveMembership,
			Message:  "Membership is not active.",
			Validity: &window,
		}, nil
	}

	return Decision{
		CanRegister: true,
		Reason:      ReasonAdmitted,
		Message:     fmt.Sprintf("Valid through %s.", window.Expiry),
		Validity:    &window,
	}, nil
}
