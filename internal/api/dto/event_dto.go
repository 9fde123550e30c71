package dto

import (
	"time"

	"github.com/eventhorizon/marketplace/internal/domain"
)

// EventResponse is one catalog entry on the wire. Dates serialize as
// ISO-8601; price, rating, and seatsLeft stay numeric.
type EventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Artist        string    `json:"artist"`
	Image         string    `json:"image"`
	Category      string    `json:"category"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Venue         string    `json:"venue"`
	Location      string    `json:"location"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Rating        float64   `json:"rating"`
	SeatsLeft     int       `json:"seatsLeft"`
}

// FromEvent maps the domain model.
func FromEvent(event domain.Event) EventResponse {
	return EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Artist:        event.Artist,
		Image:         event.Image,
		Category:      string(event.Category),
		Date:          event.Date,
		Time:          event.Time,
		Venue:         event.Venue,
		Location:      event.Location,
		Price:         event.Price,
		OriginalPrice: event.OriginalPrice,
		Rating:        event.Rating,
		SeatsLeft:     event.SeatsLeft,
	}
}

// EventListResponse wraps the catalog listing.
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

// TierResponse is one purchasable tier.
type TierResponse struct {
	Tier        string  `json:"tier"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// EventDetailResponse is an event plus its ticket tiers.
type EventDetailResponse struct {
	Event EventResponse  `json:"event"`
	Tiers []TierResponse `json:"tiers"`
}

// FromEventDetail maps the domain model with derived tiers.
func FromEventDetail(event domain.Event) EventDetailResponse {
	tiers := make([]TierResponse, 0, 2)
	for _, opt := range event.Tiers() {
		tiers = append(tiers, TierResponse{
			Tier:        string(opt.Tier),
			Description: opt.Description,
			Price:       opt.Price,
		})
	}
	return EventDetailResponse{Event: FromEvent(event), Tiers: tiers}
}
