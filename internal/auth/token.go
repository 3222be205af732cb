package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/smartpersona/backend/internal/domain"
)

var (
	// ErrInvalidSignature means the token was not signed with the codec's secret.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrExpired means the token's expiry lies in the past.
	ErrExpired = errors.New("token expired")
	// ErrMalformed means the token or one of its claims could not be decoded.
	ErrMalformed = errors.New("token malformed")
	// ErrRoleMismatch means the token verified but carries a role the caller does not accept.
	ErrRoleMismatch = errors.New("token role not permitted")
)

// Clock returns the current time.
type Clock func() time.Time

// tokenClaims is the JWT wire form of domain.Claims.
type tokenClaims struct {
	Role domain.TokenRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens with a single secret.
type TokenCodec struct {
	secret []byte
	now    Clock
}

// NewTokenCodec builds a codec bound to secret.
func NewTokenCodec(secret []byte, now Clock) *TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{secret: secret, now: now}
}

// Issue signs claims. Identical claims and secret yield identical tokens.
func (tc *TokenCodec) Issue(claims domain.Claims) (string, error) {
	if claims.ExpiresAt <= claims.IssuedAt {
		return "", errors.New("token expiry must be after issuance")
	}
	wire := tokenClaims{
		Role: claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject.String(),
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString(tc.secret)
}

// Verify checks the signature, then the claims, and returns the decoded payload.
func (tc *TokenCodec) Verify(token string) (domain.Claims, error) {
	var wire tokenClaims
	_, err := jwt.ParseWithClaims(token, &wire, func(*jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return domain.Claims{}, ErrInvalidSignature
		}
		return domain.Claims{}, ErrMalformed
	}

	if wire.ExpiresAt == nil || wire.IssuedAt == nil || !wire.Role.Valid() {
		return domain.Claims{}, ErrMalformed
	}
	subject, err := uuid.Parse(wire.Subject)
	if err != nil {
		return domain.Claims{}, ErrMalformed
	}

	claims := domain.Claims{
		Subject:   subject,
		Role:      wire.Role,
		IssuedAt:  wire.IssuedAt.Unix(),
		ExpiresAt: wire.ExpiresAt.Unix(),
	}
	if tc.now().Unix() > claims.ExpiresAt {
		return domain.Claims{}, ErrExpired
	}
	return claims, nil
}
