package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/telnova/cart-backend/internal/cartstore"
	"github.com/telnova/cart-backend/pkg/enums"
	pkgerrors "github.com/telnova/cart-backend/pkg/errors"
	"github.com/telnova/cart-backend/pkg/logger"
	"github.com/telnova/cart-backend/pkg/metrics"
	"github.com/telnova/cart-backend/pkg/models"
)

// Service converts an active cart into a confirmed order. Payment capture is
// simulated; the confirmed result is returned synchronously.
type Service interface {
	Checkout(ctx context.Context, cartID uuid.UUID, input Input) (*models.CheckoutResult, error)
}

// Input carries the checkout payload.
type Input struct {
	CustomerID      *string
	PaymentMethodID string
}

// ServiceParams collects the dependencies for NewService. Locks must be the
// same keyed lock the cart engine uses so checkout and item mutations on one
// cart never interleave.
type ServiceParams struct {
	Store   cartstore.Store
	Locks   *cartstore.KeyedLock
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

type service struct {
	store   cartstore.Store
	locks   *cartstore.KeyedLock
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService builds the checkout service.
func NewService(p ServiceParams) (Service, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if p.Locks == nil {
		return nil, fmt.Errorf("keyed lock required")
	}
	return &service{
		store:   p.Store,
		locks:   p.Locks,
		logg:    p.Logger,
		metrics: p.Metrics,
	}, nil
}

func (s *service) Checkout(ctx context.Context, cartID uuid.UUID, input Input) (*models.CheckoutResult, error) {
	result, err := s.checkout(ctx, cartID, input)
	s.metrics.IncCheckout(resultLabel(err))
	return result, err
}

func (s *service) checkout(ctx context.Context, cartID uuid.UUID, input Input) (*models.CheckoutResult, error) {
	unlock := s.locks.Lock(cartID)
	defer unlock()

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Status != enums.CartStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cart %s is already ordered", cart.ID)).
			WithDetails(map[string]any{"status": cart.Status})
	}

	// Rejecting an empty cart happens before any order identifiers exist, so
	// a failed checkout leaves nothing behind.
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items to check out")
	}

	if input.CustomerID != nil {
		customerID := *input.CustomerID
		cart.CustomerID = &customerID
	}
	cart.Status = enums.CartStatusOrdered

	if err := s.store.Put(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist ordered cart")
	}

	orderID := uuid.New()
	result := &models.CheckoutResult{
		OrderID:            orderID,
		Status:             enums.CheckoutStatusConfirmed,
		ConfirmationNumber: confirmationNumber(orderID),
		Cart:               cart,
		PaymentMethodID:    input.PaymentMethodID,
	}

	if s.logg != nil {
		ctx = s.logg.WithCartID(ctx, cartID.String())
		ctx = s.logg.WithField(ctx, "order_id", orderID.String())
		s.logg.Info(ctx, "checkout.confirmed")
	}
	return result, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, id)
	if err == nil {
		return cart, nil
	}
	if cartstore.Unavailable(err) {
		s.metrics.IncStoreMiss(cartstore.MissReason(err))
		return nil, pkgerrors.Wrap(pkgerrors.CodeCartNotAvailable, err,
			fmt.Sprintf("cart %s is not available", id))
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
}

// confirmationNumber derives a short reference code from the order id. The
// 48-bit suffix is drawn from the uuid's random field.
func confirmationNumber(orderID uuid.UUID) string {
	compact := strings.ReplaceAll(orderID.String(), "-", "")
	return "CONF-" + strings.ToUpper(compact[:12])
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return "error"
}
