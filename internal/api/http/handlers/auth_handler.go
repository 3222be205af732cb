package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/smartpersona/backend/internal/api/dto"
	"github.com/smartpersona/backend/internal/auth"
	"github.com/smartpersona/backend/internal/domain"
	"github.com/smartpersona/backend/internal/service"
	apperrors "github.com/smartpersona/backend/pkg/util/errorutil"
)

type (
	loginFunc   func(ctx context.Context, clientKey, username, password string) (domain.Passport, error)
	refreshFunc func(ctx context.Context, refreshToken string) (domain.Passport, error)
)

// AuthHandler exposes the session endpoints of both secret domains.
type AuthHandler struct {
	auth      *service.AuthService
	transport *auth.SessionTransport
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, transport *auth.SessionTransport) *AuthHandler {
	return &AuthHandler{auth: authService, transport: transport}
}

// Login handles POST /authentication/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	return h.login(c, h.auth.Login, auth.RegularSessionCookies)
}

// AdminLogin handles POST /authentication/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	return h.login(c, h.auth.AdminLogin, auth.AdminSessionCookies)
}

// Refresh handles POST /authentication/refresh-token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	return h.refresh(c, h.auth.UserRefresh, auth.RegularSessionCookies)
}

// AdminRefresh handles POST /authentication/admin/refresh-token.
func (h *AuthHandler) AdminRefresh(c *fiber.Ctx) error {
	return h.refresh(c, h.auth.AdminRefresh, auth.AdminSessionCookies)
}

// Logout handles POST /authentication/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return h.logout(c, auth.RegularSessionCookies)
}

// AdminLogout handles POST /authentication/admin/logout.
func (h *AuthHandler) AdminLogout(c *fiber.Ctx) error {
	return h.logout(c, auth.AdminSessionCookies)
}

func (h *AuthHandler) login(c *fiber.Ctx, login loginFunc, names auth.CookieNames) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	passport, err := login(c.UserContext(), c.IP(), req.Username, req.Password)
	if err != nil {
		return err
	}

	auth.SetCookies(c, h.transport.SessionCookies(passport, names, c.Get(fiber.HeaderOrigin), c.Get(fiber.HeaderReferer)))
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "login successful"}})
}

func (h *AuthHandler) refresh(c *fiber.Ctx, refresh refreshFunc, names auth.CookieNames) error {
	token := auth.ExtractCookie(c, names.Refresh)
	if token == "" {
		return apperrors.NewValidationError("refresh token cookie required", nil)
	}

	passport, err := refresh(c.UserContext(), token)
	if err != nil {
		return err
	}

	auth.SetCookies(c, h.transport.SessionCookies(passport, names, c.Get(fiber.HeaderOrigin), c.Get(fiber.HeaderReferer)))
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "session refreshed"}})
}

func (h *AuthHandler) logout(c *fiber.Ctx, names auth.CookieNames) error {
	auth.SetCookies(c, h.transport.RemovalCookies(names, c.Get(fiber.HeaderOrigin), c.Get(fiber.HeaderReferer)))
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "logged out"}})
}
