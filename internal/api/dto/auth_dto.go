package dto

import (
	"time"

	"github.com/smartpersona/backend/internal/domain"
)

// LoginRequest payload for user and admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest payload for self-service sign-up.
type RegisterRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name"`
	Role        string  `json:"role"`
}

// MessageResponse is returned by endpoints whose result travels in cookies.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse carries the new account id.
type RegisterResponse struct {
	ID string `json:"id"`
}

// AccountResponse is the public view of an account. It never includes the hash.
type AccountResponse struct {
	ID          string               `json:"id"`
	Username    string               `json:"username"`
	DisplayName *string              `json:"display_name"`
	Role        domain.AccountRole   `json:"role"`
	Status      domain.AccountStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID.String(),
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}
