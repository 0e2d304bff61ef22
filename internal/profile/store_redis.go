package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
	"studiogate/pkg/platform/sentinel"
)

const profileKeyPrefix = "profile:subject:"

// maxUpdateRetries bounds optimistic-concurrency retries on WATCH conflicts.
const maxUpdateRetries = 3

// RedisStore is a Redis-backed profile store. Documents are stored as JSON
// and re-validated on every read so unknown-shape documents written by other
// tools are rejected at this boundary.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// profileDoc is the wire shape of a stored profile. Dates cross this boundary
// in YYYY-MM-DD form.
type profileDoc struct {
	SubjectID        string `json:"subject_id"`
	Role             string `json:"role"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	MembershipStatus string `json:"membership_status,omitempty"`
	CurrentPackageID string `json:"current_package_id,omitempty"`
	PackageStart     string `json:"package_start,omitempty"`
}

func encodeProfile(p Profile) ([]byte, error) {
	doc := profileDoc{
		SubjectID:        p.SubjectID.String(),
		Role:             p.Role.String(),
		Name:             p.Name,
		Email:            p.Email,
		MembershipStatus: p.MembershipStatus.String(),
		CurrentPackageID: p.CurrentPackageID.String(),
	}
	if p.PackageStart != nil {
		doc.PackageStart = p.PackageStart.String()
	}
	return json.Marshal(doc)
}

func decodeProfile(raw []byte) (*Profile, error) {
	var doc profileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile document")
	}

	role, err := domain.ParseRole(doc.Role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile document")
	}
	status, err := ParseMembershipStatus(doc.MembershipStatus)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile document")
	}

	p := Profile{
		SubjectID:        domain.SubjectID(doc.SubjectID),
		Role:             role,
		Name:             doc.Name,
		Email:            doc.Email,
		MembershipStatus: status,
		CurrentPackageID: domain.PackageID(doc.CurrentPackageID),
	}
	if doc.PackageStart != "" {
		start, err := domain.ParseDate(doc.PackageStart)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile document")
		}
		p.PackageStart = &start
	}
	if err := p.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed profile document")
	}
	return &p, nil
}

func profileKey(subjectID domain.SubjectID) string {
	return profileKeyPrefix + subjectID.String()
}

func (s *RedisStore) Get(ctx context.Context, subjectID domain.SubjectID) (*Profile, error) {
	raw, err := s.client.Get(ctx, profileKey(subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get profile: %w", err)
	}
	return decodeProfile(raw)
}

func (s *RedisStore) Set(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	raw, err := encodeProfile(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.client.Set(ctx, profileKey(p.SubjectID), raw, 0).Err()
}

// Update applies a patch under optimistic concurrency: WATCH detects
// concurrent writers and the patch is retried a bounded number of times.
func (s *RedisStore) Update(ctx context.Context, subjectID domain.SubjectID, patch Patch) (*Profile, error) {
	key := profileKey(subjectID)

	var updated *Profile
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return err
		}

		current, err := decodeProfile(raw)
		if err != nil {
			return err
		}
		patch.apply(current)
		if err := current.Validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, "patch produces invalid profile")
		}

		encoded, err := encodeProfile(*current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = current
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, sentinel.ErrConflict
}

func (s *RedisStore) Delete(ctx context.Context, subjectID domain.SubjectID) error {
	deleted, err := s.client.Del(ctx, profileKey(subjectID)).Result()
	if err != nil {
		return fmt.Errorf("redis delete profile: %w", err)
	}
	if deleted == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
