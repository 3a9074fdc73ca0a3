package cartstore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/telnova/cart-backend/pkg/models"
)

// Callers see one "not available" condition; the split sentinels exist so
// logs and metrics can separate a cart that never existed from one that
// outlived its TTL.
var (
	ErrNotFound = errors.New("cart not found")
	ErrExpired  = errors.New("cart expired")
)

// Store maps cart ids to cart aggregates with expiry-aware reads. Get returns
// a value snapshot and Put replaces the aggregate wholesale; holding the
// per-cart critical section across read-modify-write is the caller's job.
type Store interface {
	Create(ctx context.Context) (*models.Cart, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Put(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Unavailable reports whether err is the unified missing-or-expired condition.
func Unavailable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired)
}

// MissReason labels an unavailability error for metrics.
func MissReason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrNotFound):
		return "missing"
	}
	return ""
}
