package cart

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/eventhorizon/marketplace/internal/domain"
)

// slotName is the fixed storage slot name; owner ids scope it per account.
const slotName = "eventCart"

// SlotKey returns the durable storage key for an owner's cart.
func SlotKey(owner string) string {
	return slotName + ":" + owner
}

// Store owns cart state for every active owner. Each mutation loads the
// durable slot, applies the change, and re-serializes the whole cart back.
// A single mutex serializes writers; concurrent owners are last-write-wins
// on their own slot, which matches the single-writer-per-session model.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.Logger
}

// NewStore builds a cart store over the given durable storage.
func NewStore(storage Storage, logger *zap.Logger) *Store {
	return &Store{storage: storage, logger: logger}
}

// Get rehydrates the owner's cart from the durable slot. A missing or
// malformed value yields an empty cart; malformed values are also cleared
// so the parse failure does not repeat on every load.
func (s *Store) Get(ctx context.Context, owner string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, owner)
}

// AddOrIncrement merges the selection into the cart and persists it.
func (s *Store) AddOrIncrement(ctx context.Context, owner string, item domain.CartLineItem) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.AddOrIncrement(item)
	if err := s.save(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity clamps and applies a quantity change to one line item.
// Returns the updated cart and whether the key was present.
func (s *Store) SetQuantity(ctx context.Context, owner, key string, quantity int) (*domain.Cart, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, false, err
	}
	found := cart.SetQuantity(key, quantity)
	if !found {
		return cart, false, nil
	}
	if err := s.save(ctx, owner, cart); err != nil {
		return nil, false, err
	}
	return cart, true, nil
}

// Remove deletes a line item. Absent keys are a persisted no-op.
func (s *Store) Remove(ctx context.Context, owner, key string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.Remove(key)
	if err := s.save(ctx, owner, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the owner's durable slot. Used when an order completes.
func (s *Store) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Clear(ctx, SlotKey(owner))
}

func (s *Store) load(ctx context.Context, owner string) (*domain.Cart, error) {
	data, found, err := s.storage.Load(ctx, SlotKey(owner))
	if err != nil {
		return nil, err
	}
	if !found {
		return &domain.Cart{}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Warn("malformed cart slot; resetting",
			zap.String("owner", owner), zap.Error(err))
		_ = s.storage.Clear(ctx, SlotKey(owner))
		return &domain.Cart{}, nil
	}
	return &cart, nil
}

func (s *Store) save(ctx context.Context, owner string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, SlotKey(owner), data)
}
