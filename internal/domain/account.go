package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountRole is the stored role of an account.
type AccountRole string

const (
	AccountRolePersonaUser AccountRole = "PersonaUser"
	AccountRoleCompanyUser AccountRole = "CompanyUser"
	AccountRoleAdmin       AccountRole = "Admin"
)

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "Pending"
	AccountStatusActive    AccountStatus = "Active"
	AccountStatusSuspended AccountStatus = "Suspended"
)

// ParseAccountStatus accepts a status name in any case.
func ParseAccountStatus(raw string) (AccountStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return AccountStatusPending, nil
	case "active":
		return AccountStatusActive, nil
	case "suspended":
		return AccountStatusSuspended, nil
	}
	return "", fmt.Errorf("invalid account status %q", raw)
}

// Account is the directory record as seen by the auth core.
type Account struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	DisplayName  *string
	Role         AccountRole
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenRole collapses the account role into the role carried by tokens.
func (a *Account) TokenRole() TokenRole {
	if a.Role == AccountRoleAdmin {
		return TokenRoleAdminAccess
	}
	return TokenRoleRegularAccess
}
