// Package profile owns the application-side record of who a subject is:
// role, contact fields, and the membership package currently assigned.
package profile

import (
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
)

// MembershipStatus is the closed set of membership states. Only Active grants
// booking rights; the others keep the reason visible to staff.
type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusInactive  MembershipStatus = "inactive"
	MembershipStatusSuspended MembershipStatus = "suspended"
)

func (m MembershipStatus) String() string { return string(m) }

// ParseMembershipStatus validates a status read from an external document.
// The empty string is allowed: admin profiles carry no membership.
func ParseMembershipStatus(raw string) (MembershipStatus, error) {
	switch MembershipStatus(raw) {
	case "", MembershipStatusActive, MembershipStatusInactive, MembershipStatusSuspended:
		return MembershipStatus(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown membership status: "+raw)
}

// Profile is the closed application record keyed by provider SubjectID. A
// profile may not exist yet for a freshly created identity (incomplete
// signup); stores report that as sentinel.ErrNotFound, never as a zero value.
type Profile struct {
	SubjectID        domain.SubjectID
	Role             domain.Role
	Name             string
	Email            string
	MembershipStatus MembershipStatus
	CurrentPackageID domain.PackageID
	PackageStart     *domain.Date
}

// HasActivePackage reports whether the profile carries a package assignment
// complete enough to evaluate.
func (p Profile) HasActivePackage() bool {
	return !p.CurrentPackageID.IsEmpty() && p.PackageStart != nil
}

// Validate enforces the closed document shape. Stores call this on every
// write and on every read from an external backend, so malformed documents
// are rejected at the boundary instead of flowing into the reconciler.
func (p Profile) Validate() error {
	if p.SubjectID.IsEmpty() {
		return dErrors.New(dErrors.CodeInvalidInput, "profile subject ID is required")
	}
	if _, err := domain.ParseRole(p.Role.String()); err != nil {
		return err
	}
	if _, err := ParseMembershipStatus(p.MembershipStatus.String()); err != nil {
		return err
	}
	if p.CurrentPackageID.IsEmpty() != (p.PackageStart == nil) {
		return dErrors.New(dErrors.CodeInvalidInput, "package ID and start date must be set together")
	}
	return nil
}

// PackageAssignment pairs a package with its start date for updates.
type PackageAssignment struct {
	PackageID domain.PackageID
	Start     domain.Date
}

// Patch is a partial profile update. Nil fields are left untouched.
type Patch struct {
	Name             *string
	Email            *string
	MembershipStatus *MembershipStatus
	Package          *PackageAssignment
	ClearPackage     bool
}

func (patch Patch) apply(p *Profile) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.MembershipStatus != nil {
		p.MembershipStatus = *patch.MembershipStatus
	}
	if patch.Package != nil {
		start := patch.Package.Start
		p.CurrentPackageID = patch.Package.PackageID
		p.PackageStart = &start
	}
	if patch.ClearPackage {
		p.CurrentPackageID = ""
		p.PackageStart = nil
	}
}
