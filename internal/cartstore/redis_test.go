package cartstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/telnova/cart-backend/pkg/redis"
)

type fakeKV struct {
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	deleted []string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeKV) CartKey(cartID string) string {
	return "cartapi:cart:" + cartID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newRedisStore(kv, 30*time.Minute)

	cart, err := store.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != cart.ID {
		t.Fatalf("expected cart %s, got %s", cart.ID, got.ID)
	}
	if ttl := kv.ttls[kv.CartKey(cart.ID.String())]; ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("key TTL should match remaining cart lifetime, got %v", ttl)
	}
}

func TestRedisStoreMissingKey(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newRedisStore(kv, 30*time.Minute)

	cart, err := store.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(context.Background(), cart.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = store.Get(context.Background(), cart.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStoreExpiredDocument(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	kv := newFakeKV()
	store := newRedisStore(kv, 30*time.Minute, WithRedisClock(clock))

	cart, err := store.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Key still present but past its recorded expiry.
	current = current.Add(31 * time.Minute)

	if _, err := store.Get(context.Background(), cart.ID); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if err := store.Put(context.Background(), cart); !errors.Is(err, ErrExpired) {
		t.Fatalf("put of an expired cart should fail, got %v", err)
	}
}

func TestRedisStoreBackendFailureSurfaces(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	kv.getErr = errors.New("connection reset")
	store := newRedisStore(kv, 30*time.Minute)

	cart, createErr := newRedisStore(newFakeKV(), 30*time.Minute).Create(context.Background())
	if createErr != nil {
		t.Fatalf("unexpected error: %v", createErr)
	}

	_, err := store.Get(context.Background(), cart.ID)
	if err == nil || Unavailable(err) {
		t.Fatalf("backend failure must not masquerade as unavailability, got %v", err)
	}
}
