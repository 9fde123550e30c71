package dto

import (
	"github.com/eventhorizon/marketplace/internal/checkout"
)

// SelectMethodRequest picks a payment method.
type SelectMethodRequest struct {
	Method string `json:"method"`
}

// SubmitReferenceRequest supplies the buyer's transaction reference.
type SubmitReferenceRequest struct {
	Reference string `json:"reference"`
}

// MethodResponse is one catalog payment method with its tagged
// instruction payload.
type MethodResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Icon              string           `json:"icon"`
	Description       string           `json:"description"`
	Kind              string           `json:"kind"`
	RequiresReference bool             `json:"requiresReference"`
	Details           checkout.Details `json:"details"`
}

// FromMethod maps a catalog entry.
func FromMethod(method checkout.Method) MethodResponse {
	return MethodResponse{
		ID:                method.ID,
		Name:              method.Name,
		Icon:              method.Icon,
		Description:       method.Description,
		Kind:              string(method.Details.Kind()),
		RequiresReference: method.RequiresReference,
		Details:           method.Details,
	}
}

// MethodListResponse wraps the method catalog.
type MethodListResponse struct {
	Methods []MethodResponse `json:"methods"`
}

// CheckoutStatusResponse reports the flow state with an order snapshot.
type CheckoutStatusResponse struct {
	State            string             `json:"state"`
	Method           string             `json:"method,omitempty"`
	PaymentReference string             `json:"paymentReference,omitempty"`
	Reference        string             `json:"reference,omitempty"`
	TimeLeft         int                `json:"timeLeft"`
	Items            []CartItemResponse `json:"items"`
	Total            float64            `json:"total"`
}

// FromCheckoutStatus maps the flow status.
func FromCheckoutStatus(status *checkout.Status) CheckoutStatusResponse {
	return CheckoutStatusResponse{
		State:            string(status.State),
		Method:           status.MethodID,
		PaymentReference: status.PaymentReference,
		Reference:        status.Reference,
		TimeLeft:         status.TimeLeft,
		Items:            FromCartItems(status.Items),
		Total:            status.Total,
	}
}
