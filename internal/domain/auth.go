package domain

import "github.com/google/uuid"

// TokenRole is the role embedded in signed claims.
type TokenRole string

const (
	// TokenRoleRegularAccess covers persona and company accounts.
	TokenRoleRegularAccess TokenRole = "UserAndCompany"
	// TokenRoleAdminAccess is exclusive to administrators.
	TokenRoleAdminAccess TokenRole = "Admin"
)

// Valid reports whether r is a known role.
func (r TokenRole) Valid() bool {
	return r == TokenRoleRegularAccess || r == TokenRoleAdminAccess
}

// SecretDomain names an independent pair of signing secrets.
type SecretDomain string

const (
	SecretDomainUser  SecretDomain = "user"
	SecretDomainAdmin SecretDomain = "admin"
)

// Claims is the signed token payload. Timestamps are unix seconds.
type Claims struct {
	Subject   uuid.UUID
	Role      TokenRole
	IssuedAt  int64
	ExpiresAt int64
}

// Passport is the access/refresh token pair handed to a client.
type Passport struct {
	AccessToken  string
	RefreshToken string
}
