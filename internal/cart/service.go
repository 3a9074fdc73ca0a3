package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/telnova/cart-backend/internal/cartstore"
	"github.com/telnova/cart-backend/internal/catalog"
	"github.com/telnova/cart-backend/pkg/enums"
	pkgerrors "github.com/telnova/cart-backend/pkg/errors"
	"github.com/telnova/cart-backend/pkg/logger"
	"github.com/telnova/cart-backend/pkg/metrics"
	"github.com/telnova/cart-backend/pkg/models"
)

// Service is the only writer path into the cart store for rule-governed
// operations. Every mutation holds the cart's critical section across the
// full read-modify-validate-persist sequence.
type Service interface {
	CreateCart(ctx context.Context, customerID *string) (*models.Cart, error)
	GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, id uuid.UUID, input AddItemInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.Cart, error)
	UpdateCart(ctx context.Context, id uuid.UUID, input UpdateCartInput) (*models.Cart, error)
	DeleteCart(ctx context.Context, id uuid.UUID) error
}

// AddItemInput carries the add-to-cart payload. ProductType, when set,
// overrides the metadata-based derivation.
type AddItemInput struct {
	ProductID   string
	Quantity    int
	ProductType *enums.ProductType
	Metadata    *models.ItemMetadata
}

// UpdateCartInput restricts cart updates to metadata-level fields; items and
// totals are unreachable through this path by construction.
type UpdateCartInput struct {
	CustomerID *string
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Store       cartstore.Store
	Locks       *cartstore.KeyedLock
	Catalog     catalog.Gateway
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
	TaxRate     decimal.Decimal
	MinQuantity int
	MaxQuantity int
}

type service struct {
	store   cartstore.Store
	locks   *cartstore.KeyedLock
	catalog catalog.Gateway
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	taxRate decimal.Decimal
	minQty  int
	maxQty  int
}

// NewService builds a cart engine backed by the provided stack.
func NewService(p ServiceParams) (Service, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if p.Locks == nil {
		return nil, fmt.Errorf("keyed lock required")
	}
	if p.Catalog == nil {
		return nil, fmt.Errorf("catalog gateway required")
	}
	if p.MinQuantity <= 0 || p.MaxQuantity < p.MinQuantity {
		return nil, fmt.Errorf("invalid quantity bounds %d..%d", p.MinQuantity, p.MaxQuantity)
	}
	return &service{
		store:   p.Store,
		locks:   p.Locks,
		catalog: p.Catalog,
		logg:    p.Logger,
		metrics: p.Metrics,
		taxRate: p.TaxRate,
		minQty:  p.MinQuantity,
		maxQty:  p.MaxQuantity,
	}, nil
}

func (s *service) CreateCart(ctx context.Context, customerID *string) (*models.Cart, error) {
	cart, err := s.createCart(ctx, customerID)
	s.metrics.IncOperation("create_cart", resultLabel(err))
	return cart, err
}

func (s *service) createCart(ctx context.Context, customerID *string) (*models.Cart, error) {
	cart, err := s.store.Create(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	if customerID != nil {
		return s.updateCart(ctx, cart.ID, UpdateCartInput{CustomerID: customerID})
	}
	return cart, nil
}

func (s *service) GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, err := s.load(ctx, id)
	s.metrics.IncOperation("get_cart", resultLabel(err))
	return cart, err
}

func (s *service) AddItem(ctx context.Context, id uuid.UUID, input AddItemInput) (*models.Cart, error) {
	cart, err := s.addItem(ctx, id, input)
	s.metrics.IncOperation("add_item", resultLabel(err))
	return cart, err
}

func (s *service) addItem(ctx context.Context, id uuid.UUID, input AddItemInput) (*models.Cart, error) {
	// Bounds are checked before any store or catalog work so a bad request
	// never produces side effects.
	if input.Quantity < s.minQty || input.Quantity > s.maxQty {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidItem,
			fmt.Sprintf("quantity must be between %d and %d", s.minQty, s.maxQty)).
			WithDetails(map[string]any{"quantity": input.Quantity})
	}
	if input.ProductType != nil && !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidItem,
			fmt.Sprintf("unknown product type %q", *input.ProductType))
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	cart, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureMutable(cart); err != nil {
		return nil, err
	}

	product, err := s.catalog.ResolveProduct(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product")
	}

	item := models.CartItem{
		ID:          uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductType: deriveProductType(input),
		Quantity:    input.Quantity,
		UnitPrice:   product.UnitPrice,
		Metadata:    input.Metadata,
	}

	// The candidate next state is built and validated in memory; nothing is
	// persisted unless the whole cart passes the business rules.
	cart.Items = append(cart.Items, item)
	cart.Recompute(s.taxRate)

	if err := validatePlanExclusivity(cart); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.Cart, error) {
	cart, err := s.removeItem(ctx, cartID, itemID)
	s.metrics.IncOperation("remove_item", resultLabel(err))
	return cart, err
}

func (s *service) removeItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.Cart, error) {
	unlock := s.locks.Lock(cartID)
	defer unlock()

	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := ensureMutable(cart); err != nil {
		return nil, err
	}

	idx := cart.ItemIndex(itemID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeItemNotFound,
			fmt.Sprintf("item %s not found in cart", itemID))
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.Recompute(s.taxRate)

	if err := s.store.Put(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return cart, nil
}

func (s *service) UpdateCart(ctx context.Context, id uuid.UUID, input UpdateCartInput) (*models.Cart, error) {
	cart, err := s.updateCart(ctx, id, input)
	s.metrics.IncOperation("update_cart", resultLabel(err))
	return cart, err
}

func (s *service) updateCart(ctx context.Context, id uuid.UUID, input UpdateCartInput) (*models.Cart, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	cart, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureMutable(cart); err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		customerID := *input.CustomerID
		cart.CustomerID = &customerID
	}

	if err := s.store.Put(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return cart, nil
}

func (s *service) DeleteCart(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	err := s.store.Delete(ctx, id)
	s.metrics.IncOperation("delete_cart", resultLabel(err))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

// load translates the store's internal miss split into the unified
// outward-facing unavailability code, keeping the cause for logs and metrics.
func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, id)
	if err == nil {
		return cart, nil
	}
	if cartstore.Unavailable(err) {
		reason := cartstore.MissReason(err)
		s.metrics.IncStoreMiss(reason)
		if s.logg != nil {
			ctx = s.logg.WithCartID(ctx, id.String())
			ctx = s.logg.WithField(ctx, "miss_reason", reason)
			s.logg.Info(ctx, "cart.unavailable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCartNotAvailable, err,
			fmt.Sprintf("cart %s is not available", id))
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
}

func ensureMutable(cart *models.Cart) error {
	if cart.Status != enums.CartStatusActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cart %s is already ordered", cart.ID)).
			WithDetails(map[string]any{"status": cart.Status})
	}
	return nil
}

func deriveProductType(input AddItemInput) enums.ProductType {
	if input.ProductType != nil {
		return *input.ProductType
	}
	if input.Metadata != nil && input.Metadata.PlanType != nil {
		return enums.ProductTypePlan
	}
	return enums.ProductTypeAddon
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
