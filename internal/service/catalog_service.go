package service

import (
	"context"

	"github.com/eventhorizon/marketplace/internal/domain"
	"github.com/eventhorizon/marketplace/internal/repository"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

// CatalogService serves read-only event browsing.
type CatalogService struct {
	events repository.EventRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(events repository.EventRepository) *CatalogService {
	return &CatalogService{events: events}
}

// List returns catalog events sorted by date ascending. An empty or "all"
// category selects everything; anything else must be a valid category.
func (s *CatalogService) List(ctx context.Context, category string) ([]domain.Event, error) {
	if category == "" || category == "all" {
		return s.events.List(ctx)
	}

	parsed, ok := domain.ParseCategory(category)
	if !ok {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	return s.events.ListByCategory(ctx, parsed)
}

// Get returns one event by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}
