package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/smartpersona/backend/internal/api/dto"
	"github.com/smartpersona/backend/internal/auth"
	"github.com/smartpersona/backend/internal/domain"
	"github.com/smartpersona/backend/internal/service"
	apperrors "github.com/smartpersona/backend/pkg/util/errorutil"
)

// AdminHandler exposes admin-only account moderation.
type AdminHandler struct {
	accounts *service.AccountService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accounts *service.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// BanUser handles POST /admin/users/:id/ban.
func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	return h.setStatus(c, domain.AccountStatusSuspended)
}

// UnbanUser handles POST /admin/users/:id/unban.
func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	return h.setStatus(c, domain.AccountStatusActive)
}

func (h *AdminHandler) setStatus(c *fiber.Ctx, status domain.AccountStatus) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid account id", map[string]any{"id": c.Params("id")})
	}

	account, err := h.accounts.SetStatus(c.UserContext(), principal.AccountID, id, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}
