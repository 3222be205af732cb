package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/smartpersona/backend/internal/api/dto"
	"github.com/smartpersona/backend/internal/auth"
	"github.com/smartpersona/backend/internal/domain"
	"github.com/smartpersona/backend/internal/service"
	apperrors "github.com/smartpersona/backend/pkg/util/errorutil"
)

// UsersHandler exposes account endpoints for persona and company users.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// Register handles POST /api/user/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	id, err := h.accounts.Register(c.UserContext(), service.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        domain.AccountRole(req.Role),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.RegisterResponse{ID: id.String()},
	})
}

// Info handles GET /api/user/info.
func (h *UsersHandler) Info(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	account, err := h.accounts.Get(c.UserContext(), principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}
