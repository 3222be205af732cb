package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartpersona/backend/internal/domain"
)

const (
	// AccessTokenTTL is the lifetime of every access token.
	AccessTokenTTL = 24 * time.Hour
	// RefreshTokenTTL bounds a session from its first login.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenIssuer builds passports signed with a domain's secrets.
type TokenIssuer struct {
	secrets *SecretRegistry
	now     Clock
}

// NewTokenIssuer constructs an issuer. A nil clock means time.Now.
func NewTokenIssuer(secrets *SecretRegistry, now Clock) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secrets: secrets, now: now}
}

// IssuePair creates a fresh passport for a new login.
func (ti *TokenIssuer) IssuePair(accountID uuid.UUID, role domain.TokenRole, d domain.SecretDomain) (domain.Passport, error) {
	now := ti.now()
	return ti.sign(d,
		domain.Claims{
			Subject:   accountID,
			Role:      role,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(AccessTokenTTL).Unix(),
		},
		domain.Claims{
			Subject:   accountID,
			Role:      role,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(RefreshTokenTTL).Unix(),
		},
	)
}

// Rotate issues a new access token and re-signs the refresh token with the
// expiry carried over from refreshed, so the session never outlives its first login.
func (ti *TokenIssuer) Rotate(refreshed domain.Claims, d domain.SecretDomain) (domain.Passport, error) {
	now := ti.now()
	if refreshed.ExpiresAt <= now.Unix() {
		return domain.Passport{}, ErrExpired
	}
	return ti.sign(d,
		domain.Claims{
			Subject:   refreshed.Subject,
			Role:      refreshed.Role,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(AccessTokenTTL).Unix(),
		},
		domain.Claims{
			Subject:   refreshed.Subject,
			Role:      refreshed.Role,
			IssuedAt:  now.Unix(),
			ExpiresAt: refreshed.ExpiresAt,
		},
	)
}

func (ti *TokenIssuer) sign(d domain.SecretDomain, access, refresh domain.Claims) (domain.Passport, error) {
	secrets, err := ti.secrets.Resolve(d)
	if err != nil {
		return domain.Passport{}, err
	}

	accessToken, err := NewTokenCodec(secrets.Access, ti.now).Issue(access)
	if err != nil {
		return domain.Passport{}, err
	}
	refreshToken, err := NewTokenCodec(secrets.Refresh, ti.now).Issue(refresh)
	if err != nil {
		return domain.Passport{}, err
	}
	return domain.Passport{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
