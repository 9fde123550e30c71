package domain

import "time"

// Quantity bounds enforced when a line item's quantity is changed directly.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// CartKey builds the composite line-item key for an event/tier pairing.
func CartKey(eventID string, tier TicketTier) string {
	return eventID + "-" + string(tier)
}

// ClampQuantity coerces a quantity into [MinQuantity, MaxQuantity].
// Sub-1 values (including the zero a failed parse yields) coerce to 1.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// CartLineItem is one (event, tier) pairing with a quantity, plus the
// display fields denormalized from the event at the time it was added.
type CartLineItem struct {
	CartKey  string     `json:"cartKey"`
	EventID  string     `json:"eventId"`
	Tier     TicketTier `json:"tier"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Title    string     `json:"title"`
	Image    string     `json:"image"`
	Date     time.Time  `json:"date"`
}

// Cart is the ordered line-item collection for one owner.
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// AddOrIncrement merges a ticket selection into the cart: an existing
// composite key has its quantity incremented by the requested amount,
// otherwise the item is appended. A request for zero or fewer tickets is
// a no-op. No upper clamp applies here; that belongs to SetQuantity.
func (c *Cart) AddOrIncrement(item CartLineItem) {
	if item.Quantity <= 0 {
		return
	}
	item.CartKey = CartKey(item.EventID, item.Tier)
	for i := range c.Items {
		if c.Items[i].CartKey == item.CartKey {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// SetQuantity replaces the quantity of the targeted line item, clamped to
// [1,10]. Returns false when no item carries the key.
func (c *Cart) SetQuantity(key string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].CartKey == key {
			c.Items[i].Quantity = ClampQuantity(quantity)
			return true
		}
	}
	return false
}

// Remove deletes the line item with the key. Absent keys are ignored.
func (c *Cart) Remove(key string) {
	for i := range c.Items {
		if c.Items[i].CartKey == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Total sums unit price times quantity across line items.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount sums quantities across line items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
