package models

import (
	"github.com/google/uuid"

	"github.com/telnova/cart-backend/pkg/enums"
)

// CheckoutResult is the order confirmation snapshot produced by checkout.
type CheckoutResult struct {
	OrderID            uuid.UUID            `json:"orderId"`
	Status             enums.CheckoutStatus `json:"status"`
	ConfirmationNumber string               `json:"confirmationNumber"`
	Cart               *Cart                `json:"cart"`
	PaymentMethodID    string               `json:"paymentMethodId"`
}
