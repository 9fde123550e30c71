package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eventhorizon/marketplace/internal/api/dto"
	"github.com/eventhorizon/marketplace/internal/service"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

// UsersHandler exposes signup, login, and password reset endpoints.
type UsersHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{accounts: accounts, logger: logger}
}

// Signup handles POST /auth/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	account, err := h.accounts.Signup(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewValidationError("email already registered", nil)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "account created",
		"user": fiber.Map{
			"id":    account.ID,
			"email": account.Email,
			"name":  account.Name,
		},
	})
}

// Login handles POST /auth/login. User-not-found and wrong-password are
// surfaced identically to the client; the distinction goes to the log only.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, exp, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("login rejected", zap.String("email", req.Email), zap.Error(err))
			return apperrors.NewUnauthorized("invalid email or password")
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":      account.ID,
			"email":   account.Email,
			"name":    account.Name,
			"balance": account.Balance,
		},
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// RequestPasswordReset handles POST /auth/password/reset/request. The
// response is the same whether or not the email exists.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	if _, err := h.accounts.RequestPasswordReset(c.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.logger.Debug("reset requested for unknown email", zap.String("email", req.Email))
		} else {
			return apperrors.MapError(err)
		}
	}

	return c.JSON(fiber.Map{"message": "if the email exists, a reset link has been sent"})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new_password required", nil)
	}

	if err := h.accounts.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return apperrors.NewValidationError("invalid or expired token", nil)
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}
