package catalog

import "context"

// DefaultPackages is the catalog a fresh deployment starts with.
var DefaultPackages = []MembershipPackage{
	{ID: "pkg-dropin", Name: "Drop-In", DurationDays: 1, PriceCents: 2500},
	{ID: "pkg-30d", Name: "30-Day Unlimited", DurationDays: 30, PriceCents: 14900},
	{ID: "pkg-90d", Name: "90-Day Unlimited", DurationDays: 90, PriceCents: 39900},
	{ID: "pkg-annual", Name: "Annual Membership", DurationDays: 365, PriceCents: 129900},
}

// Seed inserts the default packages, overwriting any with the same ID.
func Seed(ctx context.Context, store Store) error {
	for _, pkg := range DefaultPackages {
		if err := store.PutPackage(ctx, pkg); err != nil {
			return err
		}
	}
	return nil
}
