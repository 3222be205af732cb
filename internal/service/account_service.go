package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartpersona/backend/internal/auth"
	"github.com/smartpersona/backend/internal/domain"
	"github.com/smartpersona/backend/internal/events"
	"github.com/smartpersona/backend/internal/repository"
	apperrors "github.com/smartpersona/backend/pkg/util/errorutil"
)

// RegisterInput is a self-service sign-up request.
type RegisterInput struct {
	Username    string
	Password    string
	DisplayName *string
	Role        domain.AccountRole
}

// AccountService manages account records outside the login flows.
type AccountService struct {
	directory  repository.UserDirectory
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        auth.Clock
}

// NewAccountService creates the service.
func NewAccountService(directory repository.UserDirectory, dispatcher events.Dispatcher, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{directory: directory, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// Register creates a Pending persona or company account.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	if err := ValidateCredentials(in.Username, in.Password); err != nil {
		return uuid.Nil, err
	}
	role := in.Role
	switch role {
	case "":
		role = domain.AccountRolePersonaUser
	case domain.AccountRolePersonaUser, domain.AccountRoleCompanyUser:
	default:
		return uuid.Nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(in.Role)})
	}
	if in.DisplayName != nil {
		trimmed := strings.TrimSpace(*in.DisplayName)
		if trimmed == "" {
			in.DisplayName = nil
		} else {
			in.DisplayName = &trimmed
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, apperrors.NewInternalError(err)
	}

	id, err := s.directory.Register(ctx, &domain.Account{
		Username:     in.Username,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Role:         role,
		Status:       domain.AccountStatusPending,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, apperrors.NewConflict("username already taken", nil)
		}
		return uuid.Nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		AccountID: id.String(),
		Payload:   events.AccountRegisteredPayload{Username: in.Username, Role: role},
	})
	return id, nil
}

// Get returns the account for an authenticated principal.
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.directory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": id.String()})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return account, nil
}

// SetStatus changes an account's status on behalf of an admin.
func (s *AccountService) SetStatus(ctx context.Context, actorID, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	account, err := s.directory.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": id.String()})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountStatusChanged,
		AccountID: id.String(),
		Domain:    domain.SecretDomainAdmin,
		Payload:   events.AccountStatusChangedPayload{ActorID: actorID.String(), NewStatus: status},
	})
	return account, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
