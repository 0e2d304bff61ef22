package domain

import (
	"strings"

	dErrors "studiogate/pkg/domain-errors"
)

// SubjectID is the opaque identifier issued by the identity provider for a
// signed-in principal. It is treated as a stable, case-sensitive token; the
// service never parses structure out of it.
type SubjectID string

// PackageID identifies a membership package in the catalog.
type PackageID string

func (s SubjectID) IsEmpty() bool { return s == "" }

func (s SubjectID) String() string { return string(s) }

func (p PackageID) IsEmpty() bool { return p == "" }

func (p PackageID) String() string { return string(p) }

const maxIDLength = 128

// ParseSubjectID validates a provider-issued subject identifier at trust
// boundaries. Provider tokens are opaque but never empty, never padded, and
// bounded in length.
func ParseSubjectID(raw string) (SubjectID, error) {
	if err := validateOpaqueID(raw, "subject ID"); err != nil {
		return "", err
	}
	return SubjectID(raw), nil
}

// ParsePackageID validates a catalog package identifier at trust boundaries.
func ParsePackageID(raw string) (PackageID, error) {
	if err := validateOpaqueID(raw, "package ID"); err != nil {
		return "", err
	}
	return PackageID(raw), nil
}

func validateOpaqueID(raw, label string) error {
	if raw == "" {
		return dErrors.New(dErrors.CodeInvalidInput, label+" must not be empty")
	}
	if raw != strings.TrimSpace(raw) {
		return dErrors.New(dErrors.CodeInvalidInput, label+" must not contain leading or trailing whitespace")
	}
	if len(raw) > maxIDLength {
		return dErrors.New(dErrors.CodeInvalidInput, label+" exceeds maximum length")
	}
	return nil
}
