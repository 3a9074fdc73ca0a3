package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/telnova/cart-backend/pkg/enums"
)

func init() {
	// Money fields encode as plain JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// Cart is the aggregate root. Subtotal, tax and total are derived from the
// item sequence and must only change through Recompute.
type Cart struct {
	ID         uuid.UUID        `json:"id"`
	Status     enums.CartStatus `json:"status"`
	Items      []CartItem       `json:"items"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
	Tax        decimal.Decimal  `json:"tax"`
	Total      decimal.Decimal  `json:"total"`
	CreatedAt  time.Time        `json:"createdAt"`
	ExpiresAt  time.Time        `json:"expiresAt"`
	CustomerID *string          `json:"customerId,omitempty"`
}

// CartItem is a single line in a cart. Product name and unit price are frozen
// at add-time; later catalog changes do not touch existing lines.
type CartItem struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   string            `json:"productId"`
	ProductName string            `json:"productName"`
	ProductType enums.ProductType `json:"productType"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unitPrice"`
	TotalPrice  decimal.Decimal   `json:"totalPrice"`
	Metadata    *ItemMetadata     `json:"metadata,omitempty"`
}

// ItemMetadata is opaque to the store; only business-rule validation reads it.
type ItemMetadata struct {
	PlanType       *enums.PlanType `json:"planType,omitempty"`
	DataCap        *string         `json:"dataCap,omitempty"`
	ContractLength *int            `json:"contractLength,omitempty"`
	IMEI           *string         `json:"imei,omitempty"`
}

// NewCart returns an empty active cart expiring at createdAt + ttl.
func NewCart(id uuid.UUID, createdAt time.Time, ttl time.Duration) *Cart {
	return &Cart{
		ID:        id,
		Status:    enums.CartStatusActive,
		Items:     []CartItem{},
		Subtotal:  decimal.Zero,
		Tax:       decimal.Zero,
		Total:     decimal.Zero,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
}

// Recompute rebuilds every derived monetary field from the item sequence.
// Arithmetic is exact; no rounding is applied.
func (c *Cart) Recompute(taxRate decimal.Decimal) {
	subtotal := decimal.Zero
	for i := range c.Items {
		c.Items[i].TotalPrice = c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
		subtotal = subtotal.Add(c.Items[i].TotalPrice)
	}
	c.Subtotal = subtotal
	c.Tax = subtotal.Mul(taxRate)
	c.Total = c.Subtotal.Add(c.Tax)
}

// Expired reports whether the cart is past its expiry at the given instant.
func (c *Cart) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ItemIndex returns the position of the item with the given id, or -1.
func (c *Cart) ItemIndex(itemID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so stored state is never shared by reference.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		out.Items[i] = item
		out.Items[i].Metadata = item.Metadata.clone()
	}
	if c.CustomerID != nil {
		customerID := *c.CustomerID
		out.CustomerID = &customerID
	}
	return &out
}

func (m *ItemMetadata) clone() *ItemMetadata {
	if m == nil {
		return nil
	}
	out := *m
	if m.PlanType != nil {
		planType := *m.PlanType
		out.PlanType = &planType
	}
	if m.DataCap != nil {
		dataCap := *m.DataCap
		out.DataCap = &dataCap
	}
	if m.ContractLength != nil {
		contractLength := *m.ContractLength
		out.ContractLength = &contractLength
	}
	if m.IMEI != nil {
		imei := *m.IMEI
		out.IMEI = &imei
	}
	return &out
}
