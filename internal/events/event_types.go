package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountCreated   EventType = "account_created"
	EventPaymentSubmitted EventType = "payment_submitted"
	EventOrderVerified    EventType = "order_verified"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OwnerID   string      `json:"owner_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountCreatedPayload payload.
type AccountCreatedPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PaymentSubmittedPayload payload.
type PaymentSubmittedPayload struct {
	MethodID  string  `json:"method_id"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
}

// OrderVerifiedPayload payload.
type OrderVerifiedPayload struct {
	MethodID  string  `json:"method_id"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	ItemCount int     `json:"item_count"`
}
