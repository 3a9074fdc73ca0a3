package cartstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telnova/cart-backend/pkg/models"
)

// MemoryStore is the default process-lifetime backend. Expiry is enforced at
// read time; expired entries stay in the map until deleted (no sweeper).
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*models.Cart
	ttl   time.Duration
	now   func() time.Time
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore builds a store whose carts live for ttl after creation.
func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		carts: map[uuid.UUID]*models.Cart{},
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates and stores a fresh empty cart.
func (s *MemoryStore) Create(_ context.Context) (*models.Cart, error) {
	cart := models.NewCart(uuid.New(), s.now(), s.ttl)

	s.mu.Lock()
	s.carts[cart.ID] = cart.Clone()
	s.mu.Unlock()

	return cart, nil
}

// Get returns a snapshot of the cart if it exists and has not expired.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*models.Cart, error) {
	s.mu.RLock()
	cart, ok := s.carts[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if cart.Expired(s.now()) {
		return nil, ErrExpired
	}
	return cart.Clone(), nil
}

// Put replaces the stored aggregate wholesale.
func (s *MemoryStore) Put(_ context.Context, cart *models.Cart) error {
	snapshot := cart.Clone()

	s.mu.Lock()
	s.carts[snapshot.ID] = snapshot
	s.mu.Unlock()

	return nil
}

// Delete removes the entry; deleting an absent id is a no-op.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()

	return nil
}
