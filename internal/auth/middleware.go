package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartpersona/backend/internal/domain"
	apperrors "github.com/smartpersona/backend/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	AccountID uuid.UUID
	Claims    domain.Claims
	Domain    domain.SecretDomain
}

// Source extracts a candidate token from a request.
type Source struct {
	Name    string
	Extract func(*fiber.Ctx) string
}

// Attempt is one step of a gate: where to look, which domain to verify
// under and which roles to accept.
type Attempt struct {
	Source Source
	Domain domain.SecretDomain
	Roles  []domain.TokenRole
}

var (
	bearerSource        = Source{Name: "bearer", Extract: ExtractBearer}
	regularCookieSource = Source{Name: "cookie:" + RegularSessionCookies.Access, Extract: func(c *fiber.Ctx) string {
		return ExtractCookie(c, RegularSessionCookies.Access)
	}}
	adminCookieSource = Source{Name: "cookie:" + AdminSessionCookies.Access, Extract: func(c *fiber.Ctx) string {
		return ExtractCookie(c, AdminSessionCookies.Access)
	}}

	anyRole   = []domain.TokenRole{domain.TokenRoleRegularAccess, domain.TokenRoleAdminAccess}
	adminOnly = []domain.TokenRole{domain.TokenRoleAdminAccess}
)

// GeneralChain is evaluated in order until one attempt accepts.
var GeneralChain = []Attempt{
	{Source: bearerSource, Domain: domain.SecretDomainUser, Roles: anyRole},
	{Source: bearerSource, Domain: domain.SecretDomainAdmin, Roles: adminOnly},
	{Source: regularCookieSource, Domain: domain.SecretDomainUser, Roles: anyRole},
	{Source: regularCookieSource, Domain: domain.SecretDomainAdmin, Roles: adminOnly},
	{Source: adminCookieSource, Domain: domain.SecretDomainAdmin, Roles: adminOnly},
}

// AdminChain accepts only the admin session cookie.
var AdminChain = []Attempt{
	{Source: adminCookieSource, Domain: domain.SecretDomainAdmin, Roles: adminOnly},
}

// AuthMiddleware gates routes on verified access tokens.
type AuthMiddleware struct {
	verifier *TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier *TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// Handle guards routes open to regular accounts and admins.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	return m.gate(c, GeneralChain)
}

// HandleAdmin guards admin-exclusive routes.
func (m *AuthMiddleware) HandleAdmin(c *fiber.Ctx) error {
	return m.gate(c, AdminChain)
}

func (m *AuthMiddleware) gate(c *fiber.Ctx, chain []Attempt) error {
	principal, ok := m.Evaluate(c, chain)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Evaluate walks chain and returns the principal of the first accepted attempt.
// Every successful signature check is followed by a role check.
func (m *AuthMiddleware) Evaluate(c *fiber.Ctx, chain []Attempt) (*Principal, bool) {
	for _, attempt := range chain {
		token := attempt.Source.Extract(c)
		if token == "" {
			continue
		}
		claims, err := m.verifier.VerifyAccess(token, attempt.Domain, attempt.Roles...)
		if err != nil {
			if IsConfigError(err) {
				m.logger.Error("secret domain unavailable", zap.String("domain", string(attempt.Domain)), zap.Error(err))
				continue
			}
			m.logger.Debug("token rejected",
				zap.String("source", attempt.Source.Name),
				zap.String("domain", string(attempt.Domain)),
				zap.Error(err))
			continue
		}
		return &Principal{AccountID: claims.Subject, Claims: claims, Domain: attempt.Domain}, true
	}
	return nil, false
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
