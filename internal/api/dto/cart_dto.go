package dto

import (
	"strconv"

	"github.com/eventhorizon/marketplace/internal/domain"
)

// AddItemRequest payload for a ticket selection.
type AddItemRequest struct {
	EventID  string `json:"eventId"`
	Tier     string `json:"tier"`
	Quantity int    `json:"quantity"`
}

// UpdateQuantityRequest payload for a quantity change. Quantity is untyped
// on purpose: non-numeric input coerces to 1 instead of failing the parse.
type UpdateQuantityRequest struct {
	Quantity any `json:"quantity"`
}

// QuantityValue coerces the raw quantity. Non-numeric values yield 1;
// range clamping happens in the domain.
func (r UpdateQuantityRequest) QuantityValue() int {
	switch v := r.Quantity.(type) {
	case float64:
		return int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 1
		}
		return parsed
	default:
		return 1
	}
}

// CartItemResponse is one line item on the wire.
type CartItemResponse struct {
	CartKey  string  `json:"cartKey"`
	EventID  string  `json:"eventId"`
	Tier     string  `json:"tier"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Title    string  `json:"title"`
	Image    string  `json:"image"`
	Date     string  `json:"date"`
}

// CartResponse is the full cart view.
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     float64            `json:"total"`
	ItemCount int                `json:"itemCount"`
}

// FromCart maps the domain cart.
func FromCart(cart *domain.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, fromCartItem(item))
	}
	return CartResponse{
		Items:     items,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
}

// FromCartItems maps a line-item snapshot (checkout order summaries).
func FromCartItems(items []domain.CartLineItem) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, fromCartItem(item))
	}
	return out
}

func fromCartItem(item domain.CartLineItem) CartItemResponse {
	return CartItemResponse{
		CartKey:  item.CartKey,
		EventID:  item.EventID,
		Tier:     string(item.Tier),
		Quantity: item.Quantity,
		Price:    item.Price,
		Title:    item.Title,
		Image:    item.Image,
		Date:     item.Date.Format("2006-01-02T15:04:05Z07:00"),
	}
}
