package auth

import (
	"slices"
	"time"

	"github.com/smartpersona/backend/internal/domain"
)

// TokenVerifier checks presented tokens against a domain and a role set.
type TokenVerifier struct {
	secrets *SecretRegistry
	now     Clock
}

// NewTokenVerifier constructs a verifier. A nil clock means time.Now.
func NewTokenVerifier(secrets *SecretRegistry, now Clock) *TokenVerifier {
	if now == nil {
		now = time.Now
	}
	return &TokenVerifier{secrets: secrets, now: now}
}

// VerifyAccess verifies an access token under d and requires its role to be one of allowed.
func (tv *TokenVerifier) VerifyAccess(token string, d domain.SecretDomain, allowed ...domain.TokenRole) (domain.Claims, error) {
	secrets, err := tv.secrets.Resolve(d)
	if err != nil {
		return domain.Claims{}, err
	}
	return tv.verify(secrets.Access, token, allowed)
}

// VerifyRefresh verifies a refresh token under d and requires the expected role.
func (tv *TokenVerifier) VerifyRefresh(token string, d domain.SecretDomain, expected domain.TokenRole) (domain.Claims, error) {
	secrets, err := tv.secrets.Resolve(d)
	if err != nil {
		return domain.Claims{}, err
	}
	return tv.verify(secrets.Refresh, token, []domain.TokenRole{expected})
}

func (tv *TokenVerifier) verify(secret []byte, token string, allowed []domain.TokenRole) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, ErrMalformed
	}
	claims, err := NewTokenCodec(secret, tv.now).Verify(token)
	if err != nil {
		return domain.Claims{}, err
	}
	if !slices.Contains(allowed, claims.Role) {
		return domain.Claims{}, ErrRoleMismatch
	}
	return claims, nil
}
