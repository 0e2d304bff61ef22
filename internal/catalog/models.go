// Package catalog holds the membership packages a studio sells and the store
// contract for looking them up.
package catalog

import (
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
)

// MembershipPackage describes a purchasable package. DurationDays is
// inclusive of the start day: a 1-day package is valid only on its start
// date.
type MembershipPackage struct {
	ID           domain.PackageID
	Name         string
	DurationDays int
	PriceCents   int64
}

// Validate enforces package invariants at the store boundary.
func (p MembershipPackage) Validate() error {
	if p.ID.IsEmpty() {
		return dErrors.New(dErrors.CodeInvalidInput, "package ID is required")
	}
	if p.DurationDays < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "package duration must be at least one day")
	}
	if p.PriceCents < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "package price must not be negative")
	}
	return nil
}
