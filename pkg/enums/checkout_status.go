package enums

// CheckoutStatus reports the outcome of a checkout. Pending is reserved for
// asynchronous payment flows; the simulated payment path always confirms.
type CheckoutStatus string

const (
	CheckoutStatusConfirmed CheckoutStatus = "confirmed"
	CheckoutStatusPending   CheckoutStatus = "pending"
)

// String implements fmt.Stringer.
func (c CheckoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStatus.
func (c CheckoutStatus) IsValid() bool {
	return c == CheckoutStatusConfirmed || c == CheckoutStatusPending
}
