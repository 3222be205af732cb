package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smartpersona/backend/internal/config"
	"github.com/smartpersona/backend/internal/domain"
)

// ErrConfigMissing is returned when a domain's secret is not configured.
var ErrConfigMissing = config.ErrConfigMissing

// DomainSecrets is the access/refresh secret pair of one domain.
type DomainSecrets struct {
	Access  []byte
	Refresh []byte
}

// SecretRegistry resolves domain secrets from the configuration loaded at startup.
type SecretRegistry struct {
	cfg config.AuthConfig
}

// NewSecretRegistry wraps an immutable auth configuration.
func NewSecretRegistry(cfg config.AuthConfig) *SecretRegistry {
	return &SecretRegistry{cfg: cfg}
}

// Resolve returns the secrets for d. It is checked on every call so a
// misconfigured domain fails where it is used.
func (r *SecretRegistry) Resolve(d domain.SecretDomain) (DomainSecrets, error) {
	var access, refresh string
	switch d {
	case domain.SecretDomainUser:
		access, refresh = r.cfg.UserAccessSecret, r.cfg.UserRefreshSecret
	case domain.SecretDomainAdmin:
		access, refresh = r.cfg.AdminAccessSecret, r.cfg.AdminRefreshSecret
	default:
		return DomainSecrets{}, fmt.Errorf("unknown secret domain %q", d)
	}

	if strings.TrimSpace(access) == "" || strings.TrimSpace(refresh) == "" {
		return DomainSecrets{}, fmt.Errorf("%w: %s domain", ErrConfigMissing, d)
	}
	return DomainSecrets{Access: []byte(access), Refresh: []byte(refresh)}, nil
}

// IsConfigError reports whether err stems from secret resolution.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}
