package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventhorizon/marketplace/internal/api/dto"
	"github.com/eventhorizon/marketplace/internal/checkout"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

// CheckoutHandler drives the payment-verification flow for the session.
type CheckoutHandler struct {
	flow *checkout.Flow
}

// NewCheckoutHandler constructs handler.
func NewCheckoutHandler(flow *checkout.Flow) *CheckoutHandler {
	return &CheckoutHandler{flow: flow}
}

// Methods handles GET /checkout/methods.
func (h *CheckoutHandler) Methods(c *fiber.Ctx) error {
	catalog := checkout.Methods()
	out := make([]dto.MethodResponse, 0, len(catalog))
	for _, method := range catalog {
		out = append(out, dto.FromMethod(method))
	}
	return c.JSON(dto.MethodListResponse{Methods: out})
}

// MethodQR handles GET /checkout/methods/:id/qr, serving the scan-to-pay
// PNG for QR-based methods.
func (h *CheckoutHandler) MethodQR(c *fiber.Ctx) error {
	method, ok := checkout.MethodByID(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("payment method", map[string]any{"id": c.Params("id")})
	}

	png, err := checkout.InstructionQR(method)
	if err != nil {
		if err == checkout.ErrNotQRMethod {
			return apperrors.NewValidationError("method has no QR instructions", map[string]any{"id": method.ID})
		}
		return apperrors.MapError(err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// SelectMethod handles POST /checkout/method.
func (h *CheckoutHandler) SelectMethod(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	var req dto.SelectMethodRequest
	if err := c.BodyParser(&req); err != nil || req.Method == "" {
		return apperrors.NewValidationError("method required", nil)
	}

	status, err := h.flow.SelectMethod(c.Context(), owner, req.Method)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromCheckoutStatus(status))
}

// SubmitReference handles POST /checkout/reference, starting verification.
func (h *CheckoutHandler) SubmitReference(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	var req dto.SubmitReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	status, err := h.flow.SubmitReference(c.Context(), owner, req.Reference)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromCheckoutStatus(status))
}

// Cancel handles POST /checkout/cancel, aborting a running verification.
func (h *CheckoutHandler) Cancel(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	status, err := h.flow.Cancel(c.Context(), owner)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromCheckoutStatus(status))
}

// Status handles GET /checkout/status.
func (h *CheckoutHandler) Status(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	status, err := h.flow.Status(c.Context(), owner)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromCheckoutStatus(status))
}
