package profile

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

// PostgresStore is a pgx-backed profile store. Dates are stored in their
// YYYY-MM-DD boundary form so calendar semantics survive the round trip
// regardless of server time zone.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the profiles table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			subject_id         TEXT PRIMARY KEY,
			role               TEXT NOT NULL,
			name               TEXT NOT NULL DEFAULT '',
			email              TEXT NOT NULL DEFAULT '',
			membership_status  TEXT NOT NULL DEFAULT '',
			current_package_id TEXT NOT NULL DEFAULT '',
			package_start      TEXT
		)`)
	if err != nil {
		return fmt.Errorf("ensure profiles schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, subjectID domain.SubjectID) (*Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT subject_id, role, name, email, membership_status, current_package_id, package_start
		FROM profiles WHERE subject_id = $1`, subjectID.String())
	return scanProfile(row)
}

func (s *PostgresStore) Set(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var start *string
	if p.PackageStart != nil {
		str := p.PackageStart.String()
		start = &str
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (subject_id, role, name, email, membership_status, current_package_id, package_start)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (subject_id) DO UPDATE SET
			role = EXCLUDED.role,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			membership_status = EXCLUDED.membership_status,
			current_package_id = EXCLUDED.current_package_id,
			package_start = EXCLUDED.package_start`,
		p.SubjectID.String(), p.Role.String(), p.Name, p.Email,
		p.MembershipStatus.String(), p.CurrentPackageID.String(), start)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Update applies a patch inside a transaction with the row locked, so
// concurrent patches serialize instead of clobbering each other.
func (s *PostgresStore) Update(ctx context.Context, subjectID domain.SubjectID, patch Patch) (*Profile, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update profile: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT subject_id, role, name, email, membership_status, current_package_id, package_start
		FROM profiles WHERE subject_id = $1 FOR UPDATE`, subjectID.String())
	current, err := scanProfile(row)
	if err != nil {
		return nil, err
	}

	patch.apply(current)
	if err := current.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "patch produces invalid profile")
	}

	var start *string
	if current.PackageStart != nil {
		str := current.PackageStart.String()
		start = &str
	}
	_, err = tx.Exec(ctx, `
		UPDATE profiles SET role = $2, name = $3, email = $4, membership_status = $5,
			current_package_id = $6, package_start = $7
		WHERE subject_id = $1`,
		current.SubjectID.String(), current.Role.String(), current.Name, current.Email,
		current.MembershipStatus.String(), current.CurrentPackageID.String(), start)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update profile: %w", err)
	}
	return current, nil
}

func (s *PostgresStore) Delete(ctx context.Context, subjectID domain.SubjectID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE subject_id = $1`, subjectID.String())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		subjectID, roleRaw, name, email, statusRaw, packageID string
		startRaw                                              *string
	)
	err := row.Scan(&subjectID, &roleRaw, &name, &email, &statusRaw, &packageID, &startRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	role, err := domain.ParseRole(roleRaw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile row")
	}
	status, err := ParseMembershipStatus(statusRaw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile row")
	}

	p := Profile{
		SubjectID:        domain.SubjectID(subjectID),
		Role:             role,
		Name:             name,
		Email:            email,
		MembershipStatus: status,
		CurrentPackageID: domain.PackageID(packageID),
	}
	if startRaw != nil && *startRaw != "" {
		start, err := domain.ParseDate(*startRaw)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile row")
		}
		p.PackageStart = &start
	}
	if err := p.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile row")
	}
	return &p, nil
}
