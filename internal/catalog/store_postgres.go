package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/sentinel"
)

// PostgresStore is a pgx-backed package catalog.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the packages table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS packages (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			duration_days INTEGER NOT NULL,
			price_cents   BIGINT NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("ensure packages schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPackage(ctx context.Context, id domain.PackageID) (*MembershipPackage, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, duration_days, price_cents FROM packages WHERE id = $1`, id.String())
	return scanPackage(row)
}

func (s *PostgresStore) PutPackage(ctx context.Context, pkg MembershipPackage) error {
	if err := pkg.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO packages (id, name, duration_days, price_cents)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			duration_days = EXCLUDED.duration_days,
			price_cents = EXCLUDED.price_cents`,
		pkg.ID.String(), pkg.Name, pkg.DurationDays, pkg.PriceCents)
	if err != nil {
		return fmt.Errorf("upsert package: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListPackages(ctx context.Context) ([]MembershipPackage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, duration_days, price_cents FROM packages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var out []MembershipPackage
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return out, nil
}

func scanPackage(row pgx.Row) (*MembershipPackage, error) {
	var pkg MembershipPackage
	var id string
	err := row.Scan(&id, &pkg.Name, &pkg.DurationDays, &pkg.PriceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan package: %w", err)
	}
	pkg.ID = domain.PackageID(id)
	if err := pkg.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed package row")
	}
	return &pkg, nil
}
