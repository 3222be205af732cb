package events

import (
	"time"

	"github.com/smartpersona/backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded       EventType = "login_succeeded"
	EventLoginFailed          EventType = "login_failed"
	EventLoginThrottled       EventType = "login_throttled"
	EventSessionRefreshed     EventType = "session_refreshed"
	EventAccountRegistered    EventType = "account_registered"
	EventAccountStatusChanged EventType = "account_status_changed"
)

// AllEventTypes lists every type the auth flows publish.
var AllEventTypes = []EventType{
	EventLoginSucceeded,
	EventLoginFailed,
	EventLoginThrottled,
	EventSessionRefreshed,
	EventAccountRegistered,
	EventAccountStatusChanged,
}

// Event represents an auth event emitted by services.
type Event struct {
	ID        string              `json:"id"`
	Type      EventType           `json:"type"`
	AccountID string              `json:"account_id,omitempty"`
	Domain    domain.SecretDomain `json:"domain,omitempty"`
	ClientKey string              `json:"client_key,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   any                 `json:"payload,omitempty"`
}

// LoginFailedPayload says why a login was refused. Reason is internal only.
type LoginFailedPayload struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// AccountStatusChangedPayload payload.
type AccountStatusChangedPayload struct {
	ActorID   string               `json:"actor_id"`
	NewStatus domain.AccountStatus `json:"new_status"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Username string             `json:"username"`
	Role     domain.AccountRole `json:"role"`
}
