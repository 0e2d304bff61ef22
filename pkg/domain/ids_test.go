package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "studiogate/pkg/domain-errors"
)

// TestParseSubjectID_Invariants validates the parsing invariant: provider
// subject IDs are opaque but never empty, padded, or unbounded.
func TestParseSubjectID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSubjectID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects padded input", func(t *testing.T) {
		_, err := ParseSubjectID(" abc123 ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		_, err := ParseSubjectID(strings.Repeat("x", maxIDLength+1))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts provider-shaped tokens", func(t *testing.T) {
		id, err := ParseSubjectID("uid_8fK2mQ9xLp")
		require.NoError(t, err)
		assert.Equal(t, SubjectID("uid_8fK2mQ9xLp"), id)
	})
}

func TestParsePackageID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePackageID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts catalog identifiers", func(t *testing.T) {
		id, err := ParsePackageID("pkg-30d-unlimited")
		require.NoError(t, err)
		assert.Equal(t, PackageID("pkg-30d-unlimited"), id)
	})
}

func TestParseRole(t *testing.T) {
	t.Run("accepts the closed role set", func(t *testing.T) {
		for _, raw := range []string{"admin", "member"} {
			role, err := ParseRole(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, role.String())
		}
	})

	t.Run("rejects unknown roles instead of coercing", func(t *testing.T) {
		for _, raw := range []string{"", "Admin", "superuser", "MEMBER"} {
			_, err := ParseRole(raw)
			require.Error(t, err, "input %q", raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}
