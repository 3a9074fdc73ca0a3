package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is the catalog view of a sellable SKU.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
}

// Gateway resolves product name and price at add-to-cart time. Within this
// service the lookup is synchronous and always succeeds; timeout and
// not-found handling belong to a real catalog integration.
type Gateway interface {
	ResolveProduct(ctx context.Context, productID string) (Product, error)
}

// StaticGateway simulates the catalog with a seeded price book. Unknown ids
// resolve to a generic product at the default price.
type StaticGateway struct {
	priceBook map[string]Product
}

var defaultUnitPrice = decimal.RequireFromString("99.99")

// NewStaticGateway seeds the simulated catalog.
func NewStaticGateway() *StaticGateway {
	book := map[string]Product{}
	for _, p := range []Product{
		{ID: "plan-5g-unlimited", Name: "5G Unlimited Plan", UnitPrice: decimal.RequireFromString("85.00")},
		{ID: "plan-4g-starter", Name: "4G Starter Plan", UnitPrice: decimal.RequireFromString("45.00")},
		{ID: "addon-roaming-us", Name: "US Roaming Pass", UnitPrice: decimal.RequireFromString("12.00")},
		{ID: "addon-data-10gb", Name: "10GB Data Top-Up", UnitPrice: decimal.RequireFromString("15.00")},
		{ID: "device-sim-esim", Name: "eSIM Activation Kit", UnitPrice: decimal.RequireFromString("9.99")},
	} {
		book[p.ID] = p
	}
	return &StaticGateway{priceBook: book}
}

// ResolveProduct implements Gateway.
func (g *StaticGateway) ResolveProduct(_ context.Context, productID string) (Product, error) {
	if p, ok := g.priceBook[productID]; ok {
		return p, nil
	}
	return Product{
		ID:        productID,
		Name:      fmt.Sprintf("Product %s", productID),
		UnitPrice: defaultUnitPrice,
	}, nil
}
