package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/eventhorizon/marketplace/internal/api/dto"
	authpkg "github.com/eventhorizon/marketplace/internal/auth"
	"github.com/eventhorizon/marketplace/internal/cart"
	"github.com/eventhorizon/marketplace/internal/domain"
	"github.com/eventhorizon/marketplace/internal/service"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

// CartHandler exposes the session cart. Prices and display fields are
// resolved from the catalog server-side rather than trusted from the
// client payload.
type CartHandler struct {
	carts   *cart.Store
	catalog *service.CatalogService
}

// NewCartHandler constructs handler.
func NewCartHandler(carts *cart.Store, catalog *service.CatalogService) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog}
}

// Get handles GET /cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	current, err := h.carts.Get(c.Context(), owner)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromCart(current))
}

// AddItem handles POST /cart/items. Adding an existing event/tier key
// increments its quantity; a zero-quantity request leaves the cart as is.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	var req dto.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EventID == "" {
		return apperrors.NewValidationError("eventId required", nil)
	}
	tier, ok := domain.ParseTier(req.Tier)
	if !ok {
		return apperrors.NewValidationError("unknown ticket tier", map[string]any{"tier": req.Tier})
	}

	event, err := h.catalog.Get(c.Context(), req.EventID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("event", map[string]any{"id": req.EventID})
		}
		return apperrors.MapError(err)
	}
	price, _ := event.TierPrice(tier)

	updated, err := h.carts.AddOrIncrement(c.Context(), owner, domain.CartLineItem{
		EventID:  event.ID,
		Tier:     tier,
		Quantity: req.Quantity,
		Price:    price,
		Title:    event.Title,
		Image:    event.Image,
		Date:     event.Date,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromCart(updated))
}

// UpdateQuantity handles PATCH /cart/items/:key. The quantity clamps to
// [1,10]; non-numeric input coerces to 1.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	var req dto.UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, found, err := h.carts.SetQuantity(c.Context(), owner, c.Params("key"), req.QuantityValue())
	if err != nil {
		return apperrors.MapError(err)
	}
	if !found {
		return apperrors.NewNotFound("cart item", map[string]any{"key": c.Params("key")})
	}
	return c.JSON(dto.FromCart(updated))
}

// RemoveItem handles DELETE /cart/items/:key. Removal is idempotent.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	owner, err := sessionOwner(c)
	if err != nil {
		return err
	}

	updated, err := h.carts.Remove(c.Context(), owner, c.Params("key"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromCart(updated))
}

func sessionOwner(c *fiber.Ctx) (string, error) {
	session, ok := authpkg.SessionFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthorized("sign-in required")
	}
	return session.UserID, nil
}
