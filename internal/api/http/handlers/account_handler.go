package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	authpkg "github.com/eventhorizon/marketplace/internal/auth"
	"github.com/eventhorizon/marketplace/internal/service"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

// AccountHandler serves signed-in account reads.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Balance handles GET /user/balance. The session snapshot may be stale,
// so the live value is read from the store by email.
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	session, ok := authpkg.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}

	balance, err := h.accounts.Balance(c.Context(), session.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"balance": balance})
}
