package catalog

import (
	"context"

	"studiogate/pkg/domain"
)

// Store is the package catalog contract. Implementations return
// sentinel.ErrNotFound for unknown package IDs.
type Store interface {
	GetPackage(ctx context.Context, id domain.PackageID) (*MembershipPackage, error)
	PutPackage(ctx context.Context, pkg MembershipPackage) error
	ListPackages(ctx context.Context) ([]MembershipPackage, error)
}
