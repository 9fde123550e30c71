package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventhorizon/marketplace/internal/cart"
	"github.com/eventhorizon/marketplace/internal/config"
	"github.com/eventhorizon/marketplace/internal/domain"
	"github.com/eventhorizon/marketplace/internal/events"
	apperrors "github.com/eventhorizon/marketplace/pkg/util"
)

// State names the checkout stages.
type State string

const (
	StateSelectingMethod   State = "selecting_method"
	StateAwaitingReference State = "awaiting_reference"
	StateVerifying         State = "verifying"
	StateVerified          State = "verified"
)

// Status is a point-in-time view of one owner's checkout.
type Status struct {
	State            State
	MethodID         string
	PaymentReference string
	Reference        string
	TimeLeft         int
	Items            []domain.CartLineItem
	Total            float64
}

// attempt is the in-memory payment attempt for one owner. Never persisted;
// a restart before completion discards it.
type attempt struct {
	state      State
	method     Method
	paymentRef string
	reference  string
	timeLeft   int
	items      []domain.CartLineItem
	amount     float64
	stop       chan struct{}
}

// Flow drives the payment-verification state machine:
// selecting_method -> awaiting_reference -> verifying -> verified, with a
// user cancel escape from verifying back to selecting_method. The countdown
// reaching zero forces verified and clears the durable cart slot. That
// auto-success on timeout stands in for manual back-office verification;
// there is no gateway call behind it.
type Flow struct {
	mu         sync.Mutex
	attempts   map[string]*attempt
	carts      *cart.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	window     int
	tick       time.Duration
	closed     bool
}

// NewFlow builds the checkout flow.
func NewFlow(cfg config.CheckoutConfig, carts *cart.Store, dispatcher events.Dispatcher, logger *zap.Logger) *Flow {
	return &Flow{
		attempts:   make(map[string]*attempt),
		carts:      carts,
		dispatcher: dispatcher,
		logger:     logger,
		window:     cfg.VerificationWindow(),
		tick:       cfg.TickInterval(),
	}
}

// SelectMethod picks a payment method and moves to awaiting_reference.
// Re-selecting discards any previously captured reference.
func (f *Flow) SelectMethod(ctx context.Context, owner, methodID string) (*Status, error) {
	method, ok := MethodByID(methodID)
	if !ok {
		return nil, apperrors.NewValidationError("unknown payment method", map[string]any{"method": methodID})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	a := f.attempt(owner)
	switch a.state {
	case StateVerifying:
		return nil, apperrors.NewConflict("verification in progress; cancel it first", nil)
	case StateVerified:
		return nil, apperrors.NewConflict("order already verified", nil)
	}

	a.method = method
	a.reference = ""
	a.paymentRef = ""
	if method.RequiresReference {
		a.paymentRef = NewPaymentReference()
	}
	a.state = StateAwaitingReference

	return f.status(ctx, owner, a), nil
}

// SubmitReference captures the buyer's transaction reference and starts the
// verification countdown.
func (f *Flow) SubmitReference(ctx context.Context, owner, reference string) (*Status, error) {
	reference = strings.TrimSpace(reference)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, apperrors.NewConflict("checkout is shutting down", nil)
	}

	a := f.attempt(owner)
	if a.state != StateAwaitingReference {
		return nil, apperrors.NewValidationError("select a payment method first", nil)
	}
	if reference == "" {
		return nil, apperrors.NewValidationError("transaction reference required", nil)
	}

	snapshot, err := f.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", nil)
	}

	a.reference = reference
	a.items = snapshot.Items
	a.amount = snapshot.Total()
	a.timeLeft = f.window
	a.state = StateVerifying
	a.stop = make(chan struct{})

	f.publish(ctx, events.EventPaymentSubmitted, owner, events.PaymentSubmittedPayload{
		MethodID:  a.method.ID,
		Reference: reference,
		Amount:    a.amount,
	})

	go f.runCountdown(owner, a)

	return f.status(ctx, owner, a), nil
}

// Cancel aborts a running verification: the countdown and reference are
// discarded and the owner is back to selecting a method. No other side
// effect; the cart is untouched.
func (f *Flow) Cancel(ctx context.Context, owner string) (*Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := f.attempt(owner)
	if a.state != StateVerifying {
		return nil, apperrors.NewValidationError("no verification in progress", nil)
	}

	close(a.stop)
	a.stop = nil
	a.state = StateSelectingMethod
	a.method = Method{}
	a.reference = ""
	a.paymentRef = ""
	a.timeLeft = 0
	a.items = nil
	a.amount = 0

	return f.status(ctx, owner, a), nil
}

// Status reports the owner's checkout state with an order snapshot.
func (f *Flow) Status(ctx context.Context, owner string) (*Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status(ctx, owner, f.attempt(owner)), nil
}

// Close stops every running countdown. Attempt state is abandoned, which
// matches PaymentAttempt being in-memory only.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for _, a := range f.attempts {
		if a.state == StateVerifying && a.stop != nil {
			close(a.stop)
			a.stop = nil
		}
	}
}

// attempt returns the owner's attempt, creating a fresh one at
// selecting_method. Callers hold f.mu.
func (f *Flow) attempt(owner string) *attempt {
	a, ok := f.attempts[owner]
	if !ok {
		a = &attempt{state: StateSelectingMethod}
		f.attempts[owner] = a
	}
	return a
}

func (f *Flow) status(ctx context.Context, owner string, a *attempt) *Status {
	st := &Status{
		State:            a.state,
		MethodID:         a.method.ID,
		PaymentReference: a.paymentRef,
		Reference:        a.reference,
		TimeLeft:         a.timeLeft,
	}
	if a.state == StateVerifying || a.state == StateVerified {
		st.Items = a.items
		st.Total = a.amount
		return st
	}
	if snapshot, err := f.carts.Get(ctx, owner); err == nil {
		st.Items = snapshot.Items
		st.Total = snapshot.Total()
	}
	return st
}

// runCountdown decrements once per tick until zero or cancellation.
func (f *Flow) runCountdown(owner string, a *attempt) {
	ticker := time.NewTicker(f.tick)
	defer ticker.Stop()

	stop := a.stop
	for {
		select {
		case <-ticker.C:
			if f.tickDown(owner, a) {
				return
			}
		case <-stop:
			return
		}
	}
}

// tickDown advances the countdown one step. Reaching zero transitions to
// verified, clears the durable cart slot, and publishes order_verified.
func (f *Flow) tickDown(owner string, a *attempt) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if a.state != StateVerifying {
		return true
	}
	a.timeLeft--
	if a.timeLeft > 0 {
		return false
	}

	a.timeLeft = 0
	a.state = StateVerified
	a.stop = nil

	ctx := context.Background()
	if err := f.carts.Clear(ctx, owner); err != nil {
		f.logger.Error("failed to clear cart after verification",
			zap.String("owner", owner), zap.Error(err))
	}
	f.publish(ctx, events.EventOrderVerified, owner, events.OrderVerifiedPayload{
		MethodID:  a.method.ID,
		Reference: a.reference,
		Amount:    a.amount,
		ItemCount: itemCount(a.items),
	})
	f.logger.Info("payment verified",
		zap.String("owner", owner),
		zap.String("method", a.method.ID),
		zap.Float64("amount", a.amount))
	return true
}

func (f *Flow) publish(ctx context.Context, eventType events.EventType, owner string, payload interface{}) {
	if f.dispatcher == nil {
		return
	}
	_ = f.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OwnerID:   owner,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func itemCount(items []domain.CartLineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
