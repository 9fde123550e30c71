package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/eventhorizon/marketplace/internal/api/dto"
	"github.com/eventhorizon/marketplace/internal/domain"
	"github.com/eventhorizon/marketplace/internal/service"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

// EventsHandler serves the read-only catalog.
type EventsHandler struct {
	catalog *service.CatalogService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(catalog *service.CatalogService) *EventsHandler {
	return &EventsHandler{catalog: catalog}
}

// List handles GET /events. Events come back sorted by date ascending;
// an empty catalog yields an empty array, not an error.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	events, err := h.catalog.List(c.Context(), c.Query("category"))
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, dto.FromEvent(event))
	}
	return c.JSON(dto.EventListResponse{Events: out})
}

// Categories handles GET /events/categories.
func (h *EventsHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": domain.Categories()})
}

// Detail handles GET /events/:id with derived ticket tiers.
func (h *EventsHandler) Detail(c *fiber.Ctx) error {
	event, err := h.catalog.Get(c.Context(), c.Params("id"))
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("event", map[string]any{"id": c.Params("id")})
		}
		return apperrors.MapError(err)
	}
	return c.JSON(dto.FromEventDetail(*event))
}
