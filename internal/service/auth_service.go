package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartpersona/backend/internal/auth"
	"github.com/smartpersona/backend/internal/domain"
	"github.com/smartpersona/backend/internal/events"
	"github.com/smartpersona/backend/internal/ratelimit"
	"github.com/smartpersona/backend/internal/repository"
	apperrors "github.com/smartpersona/backend/pkg/util/errorutil"
)

// Credential shape limits, counted in characters.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	PasswordMinLen = 8
	PasswordMaxLen = 128
)

// AuthService coordinates login and refresh flows for both secret domains.
type AuthService struct {
	directory  repository.UserDirectory
	issuer     *auth.TokenIssuer
	verifier   *auth.TokenVerifier
	limiter    *ratelimit.LoginLimiter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        auth.Clock
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Directory  repository.UserDirectory
	Issuer     *auth.TokenIssuer
	Verifier   *auth.TokenVerifier
	Limiter    *ratelimit.LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      auth.Clock
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	s := &AuthService{
		directory:  deps.Directory,
		issuer:     deps.Issuer,
		verifier:   deps.Verifier,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.limiter == nil {
		s.limiter = ratelimit.NewLoginLimiter(ratelimit.DefaultMaxAttempts, ratelimit.DefaultWindow)
	}
	return s
}

// Login authenticates a persona or company account under the user domain.
// Admin accounts may use it too; they receive a RegularAccess passport.
func (s *AuthService) Login(ctx context.Context, clientKey, username, password string) (domain.Passport, error) {
	account, err := s.authenticate(ctx, clientKey, username, password, domain.SecretDomainUser)
	if err != nil {
		return domain.Passport{}, err
	}
	return s.issue(ctx, clientKey, account, domain.TokenRoleRegularAccess, domain.SecretDomainUser)
}

// AdminLogin authenticates an administrator under the admin domain.
func (s *AuthService) AdminLogin(ctx context.Context, clientKey, username, password string) (domain.Passport, error) {
	account, err := s.authenticate(ctx, clientKey, username, password, domain.SecretDomainAdmin)
	if err != nil {
		return domain.Passport{}, err
	}
	if account.Role != domain.AccountRoleAdmin {
		s.publishLoginFailed(ctx, clientKey, domain.SecretDomainAdmin, username, "not an admin")
		return domain.Passport{}, apperrors.NewUnauthorized("unauthorized")
	}
	return s.issue(ctx, clientKey, account, domain.TokenRoleAdminAccess, domain.SecretDomainAdmin)
}

// Refresh rotates a passport from a refresh token. The new refresh token keeps
// the presented token's expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, d domain.SecretDomain, expected domain.TokenRole) (domain.Passport, error) {
	claims, err := s.verifier.VerifyRefresh(refreshToken, d, expected)
	if err != nil {
		if errors.Is(err, auth.ErrConfigMissing) {
			return domain.Passport{}, apperrors.NewInternalError(err)
		}
		return domain.Passport{}, apperrors.WrapUnauthorized(err)
	}

	passport, err := s.issuer.Rotate(claims, d)
	if err != nil {
		if errors.Is(err, auth.ErrExpired) {
			return domain.Passport{}, apperrors.WrapUnauthorized(err)
		}
		return domain.Passport{}, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventSessionRefreshed,
		AccountID: claims.Subject.String(),
		Domain:    d,
	})
	return passport, nil
}

// UserRefresh is Refresh bound to the user domain.
func (s *AuthService) UserRefresh(ctx context.Context, refreshToken string) (domain.Passport, error) {
	return s.Refresh(ctx, refreshToken, domain.SecretDomainUser, domain.TokenRoleRegularAccess)
}

// AdminRefresh is Refresh bound to the admin domain.
func (s *AuthService) AdminRefresh(ctx context.Context, refreshToken string) (domain.Passport, error) {
	return s.Refresh(ctx, refreshToken, domain.SecretDomainAdmin, domain.TokenRoleAdminAccess)
}

// authenticate runs shape validation, the rate limit gate, the directory
// lookup and the password check, in that order.
func (s *AuthService) authenticate(ctx context.Context, clientKey, username, password string, d domain.SecretDomain) (*domain.Account, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	if s.limiter.CheckAndRecord(clientKey) == ratelimit.Throttled {
		s.publish(ctx, events.Event{Type: events.EventLoginThrottled, Domain: d, ClientKey: clientKey})
		return nil, apperrors.NewTooManyRequests()
	}

	account, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.publishLoginFailed(ctx, clientKey, d, username, "unknown username")
			return nil, apperrors.NewInvalidCredentials(err)
		}
		s.logger.Error("directory lookup failed", zap.String("domain", string(d)), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	if !auth.VerifyPassword(password, account.PasswordHash) {
		s.publishLoginFailed(ctx, clientKey, d, username, "password mismatch")
		return nil, apperrors.NewInvalidCredentials(nil)
	}
	if account.Status == domain.AccountStatusSuspended {
		s.publishLoginFailed(ctx, clientKey, d, username, "account suspended")
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	return account, nil
}

func (s *AuthService) issue(ctx context.Context, clientKey string, account *domain.Account, role domain.TokenRole, d domain.SecretDomain) (domain.Passport, error) {
	passport, err := s.issuer.IssuePair(account.ID, role, d)
	if err != nil {
		s.logger.Error("token issuance failed", zap.String("domain", string(d)), zap.Error(err))
		return domain.Passport{}, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventLoginSucceeded,
		AccountID: account.ID.String(),
		Domain:    d,
		ClientKey: clientKey,
	})
	return passport, nil
}

// ValidateCredentials enforces the username and password length bounds.
func ValidateCredentials(username, password string) error {
	details := map[string]any{}
	if n := utf8.RuneCountInString(username); n < UsernameMinLen || n > UsernameMaxLen {
		details["username"] = "must be between 3 and 50 characters"
	}
	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		details["password"] = "must be between 8 and 128 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid credentials shape", details)
	}
	return nil
}

func (s *AuthService) publishLoginFailed(ctx context.Context, clientKey string, d domain.SecretDomain, username, reason string) {
	s.publish(ctx, events.Event{
		Type:      events.EventLoginFailed,
		Domain:    d,
		ClientKey: clientKey,
		Payload:   events.LoginFailedPayload{Username: username, Reason: reason},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
