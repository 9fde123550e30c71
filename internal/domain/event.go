package domain

import "time"

// Category classifies events into the fixed browsing sections.
type Category string

const (
	CategoryConcerts  Category = "concerts"
	CategorySports    Category = "sports"
	CategoryFestivals Category = "festivals"
	CategoryTheater   Category = "theater"
)

// Categories lists every valid event category.
func Categories() []Category {
	return []Category{CategoryConcerts, CategorySports, CategoryFestivals, CategoryTheater}
}

// ParseCategory validates a raw category value.
func ParseCategory(raw string) (Category, bool) {
	c := Category(raw)
	switch c {
	case CategoryConcerts, CategorySports, CategoryFestivals, CategoryTheater:
		return c, true
	}
	return "", false
}

// Event is a catalog entry. Immutable from the client's perspective.
type Event struct {
	ID            string
	Title         string
	Artist        string
	Image         string
	Category      Category
	Date          time.Time
	Time          string
	Venue         string
	Location      string
	Price         float64
	OriginalPrice *float64
	SeatsLeft     int
	Rating        float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TicketTier is a named pricing variant of an event.
type TicketTier string

const (
	TierGeneral TicketTier = "general"
	TierVIP     TicketTier = "vip"
)

// vipMarkup is the flat surcharge over the base price for VIP packages.
const vipMarkup = 100

// ParseTier validates a raw tier value.
func ParseTier(raw string) (TicketTier, bool) {
	t := TicketTier(raw)
	switch t {
	case TierGeneral, TierVIP:
		return t, true
	}
	return "", false
}

// TierOption describes one purchasable tier of an event.
type TierOption struct {
	Tier        TicketTier
	Description string
	Price       float64
}

// Tiers returns the purchasable tiers derived from the event's base price.
func (e *Event) Tiers() []TierOption {
	return []TierOption{
		{Tier: TierGeneral, Description: "Standing room only", Price: e.Price},
		{Tier: TierVIP, Description: "Early entry + perks", Price: e.Price + vipMarkup},
	}
}

// TierPrice resolves the unit price for a tier.
func (e *Event) TierPrice(tier TicketTier) (float64, bool) {
	for _, opt := range e.Tiers() {
		if opt.Tier == tier {
			return opt.Price, true
		}
	}
	return 0, false
}
