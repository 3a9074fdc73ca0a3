package cart

import (
	cartsvc "github.com/telnova/cart-backend/internal/cart"
	"github.com/telnova/cart-backend/internal/checkout"
	"github.com/telnova/cart-backend/pkg/enums"
	"github.com/telnova/cart-backend/pkg/models"
)

// CreateCartRequest optionally attaches a customer at creation time.
type CreateCartRequest struct {
	CustomerID *string `json:"customerId,omitempty" validate:"omitempty,min=1"`
}

// AddItemRequest is the add-to-cart payload. Quantity bounds are enforced by
// the engine so bound violations surface as INVALID_ITEM rather than a
// generic validation failure.
type AddItemRequest struct {
	ProductID   string               `json:"productId" validate:"required"`
	Quantity    int                  `json:"quantity"`
	ProductType *string              `json:"productType,omitempty" validate:"omitempty,oneof=device plan addon"`
	Metadata    *ItemMetadataRequest `json:"metadata,omitempty"`
}

// ItemMetadataRequest mirrors the optional metadata block on a line item.
type ItemMetadataRequest struct {
	PlanType       *string `json:"planType,omitempty" validate:"omitempty,oneof=prepaid postpaid"`
	DataCap        *string `json:"dataCap,omitempty"`
	ContractLength *int    `json:"contractLength,omitempty" validate:"omitempty,min=1"`
	IMEI           *string `json:"imei,omitempty"`
}

// UpdateCartRequest carries the mutable cart attributes. Items and totals are
// not reachable through this payload.
type UpdateCartRequest struct {
	CustomerID *string `json:"customerId" validate:"required,min=1"`
}

// CheckoutRequest finalizes a cart into an order.
type CheckoutRequest struct {
	CustomerID      *string `json:"customerId,omitempty" validate:"omitempty,min=1"`
	PaymentMethodID string  `json:"paymentMethodId" validate:"required"`
}

func toAddItemInput(payload AddItemRequest) cartsvc.AddItemInput {
	input := cartsvc.AddItemInput{
		ProductID: payload.ProductID,
		Quantity:  payload.Quantity,
	}
	if payload.ProductType != nil {
		productType := enums.ProductType(*payload.ProductType)
		input.ProductType = &productType
	}
	if payload.Metadata != nil {
		input.Metadata = toItemMetadata(*payload.Metadata)
	}
	return input
}

func toItemMetadata(payload ItemMetadataRequest) *models.ItemMetadata {
	metadata := &models.ItemMetadata{
		DataCap:        payload.DataCap,
		ContractLength: payload.ContractLength,
		IMEI:           payload.IMEI,
	}
	if payload.PlanType != nil {
		planType := enums.PlanType(*payload.PlanType)
		metadata.PlanType = &planType
	}
	return metadata
}

func toCheckoutInput(payload CheckoutRequest) checkout.Input {
	return checkout.Input{
		CustomerID:      payload.CustomerID,
		PaymentMethodID: payload.PaymentMethodID,
	}
}
