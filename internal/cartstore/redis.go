package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telnova/cart-backend/pkg/models"
	"github.com/telnova/cart-backend/pkg/redis"
)

type redisKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// RedisStore keeps carts as JSON documents with a key TTL matching the cart
// lifetime, so Redis reaps expired entries on its own.
type RedisStore struct {
	kv  redisKV
	ttl time.Duration
	now func() time.Time
}

// RedisOption customizes a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisClock overrides the time source, for expiry tests.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		s.now = now
	}
}

// NewRedisStore builds a store backed by the given client.
func NewRedisStore(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisStore {
	return newRedisStore(client, ttl, opts...)
}

func newRedisStore(kv redisKV, ttl time.Duration, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		kv:  kv,
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates and stores a fresh empty cart.
func (s *RedisStore) Create(ctx context.Context) (*models.Cart, error) {
	cart := models.NewCart(uuid.New(), s.now(), s.ttl)
	if err := s.write(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Get returns the cart if it exists and has not expired. The stored expiry is
// re-checked against the local clock in case the key outlived it.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(id.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decoding stored cart: %w", err)
	}
	if cart.Expired(s.now()) {
		return nil, ErrExpired
	}
	return &cart, nil
}

// Put replaces the stored aggregate, preserving the remaining lifetime.
func (s *RedisStore) Put(ctx context.Context, cart *models.Cart) error {
	if cart.Expired(s.now()) {
		return ErrExpired
	}
	return s.write(ctx, cart)
}

// Delete removes the entry; deleting an absent id is a no-op.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(id.String())); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, cart *models.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	remaining := cart.ExpiresAt.Sub(s.now())
	if err := s.kv.Set(ctx, s.kv.CartKey(cart.ID.String()), payload, remaining); err != nil {
		return fmt.Errorf("redis put cart: %w", err)
	}
	return nil
}
