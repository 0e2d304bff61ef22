package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"studiogate/internal/platform/config"
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
)

// Claims are the JWT claims carried by provider session tokens. The subject
// claim is the provider SubjectID; the reconciler cross-checks it against the
// identity it refreshed for.
type Claims struct {
	jwt.RegisteredClaims
}

const defaultTokenTTL = time.Hour

// TokenIssuer mints session tokens. In production the provider does this; the
// issuer backs the in-memory provider for development and tests.
type TokenIssuer struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
}

func NewTokenIssuer(cfg config.TokenConfig) *TokenIssuer {
	return &TokenIssuer{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		ttl:        defaultTokenTTL,
	}
}

func (i *TokenIssuer) Issue(subject domain.SubjectID) (Token, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.issuer,
			Audience:  []string{i.audience},
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return Token{}, err
	}
	return Token{Raw: signed, ExpiresAt: expiresAt}, nil
}

// TokenVerifier validates refreshed tokens and extracts their subject.
type TokenVerifier struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewTokenVerifier(cfg config.TokenConfig) *TokenVerifier {
	return &TokenVerifier{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}
}

// Verify parses and validates a raw token and returns its subject.
func (v *TokenVerifier) Verify(raw string) (domain.SubjectID, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithAudience(v.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return domain.ParseSubjectID(claims.Subject)
}
