// Package secrets generates and verifies one-time codes.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "studiogate/pkg/domain-errors"
)

// Generate creates a cryptographically secure random code, base64-encoded.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash creates a bcrypt hash of the provided code for storage. The plaintext
// is shown once and never persisted.
func Hash(code string) (string, error) {
	if code == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "code cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "code is too long")
		}
		return "", fmt.Errorf("could not hash code: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a plaintext code against its stored bcrypt hash.
func Verify(code, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid code")
		}
		return fmt.Errorf("could not verify code: %w", err)
	}
	return nil
}
