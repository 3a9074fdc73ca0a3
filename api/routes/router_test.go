package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	cartsvc "github.com/telnova/cart-backend/internal/cart"
	"github.com/telnova/cart-backend/internal/cartstore"
	"github.com/telnova/cart-backend/internal/catalog"
	checkoutsvc "github.com/telnova/cart-backend/internal/checkout"
	"github.com/telnova/cart-backend/pkg/config"
	"github.com/telnova/cart-backend/pkg/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Cart.TTL = 30 * time.Minute
	cfg.Cart.TaxRate = "0.13"
	cfg.Cart.MinQuantity = 1
	cfg.Cart.MaxQuantity = 10

	store := cartstore.NewMemoryStore(cfg.Cart.TTL)
	locks := cartstore.NewKeyedLock()
	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)

	carts, err := cartsvc.NewService(cartsvc.ServiceParams{
		Store:       store,
		Locks:       locks,
		Catalog:     catalog.NewStaticGateway(),
		Metrics:     cartMetrics,
		TaxRate:     decimal.RequireFromString(cfg.Cart.TaxRate),
		MinQuantity: cfg.Cart.MinQuantity,
		MaxQuantity: cfg.Cart.MaxQuantity,
	})
	if err != nil {
		t.Fatalf("building cart service: %v", err)
	}

	checkouts, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Store:   store,
		Locks:   locks,
		Metrics: cartMetrics,
	})
	if err != nil {
		t.Fatalf("building checkout service: %v", err)
	}

	return NewRouter(cfg, nil, nil, reg, carts, checkouts)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	payload := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}
	return rec, payload
}

func dataField(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data envelope, got %v", payload)
	}
	return data
}

func errorCode(t *testing.T, payload map[string]any) string {
	t.Helper()
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %v", payload)
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestCartLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec, payload := doJSON(t, router, "POST", "/api/v1/carts", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	cart := dataField(t, payload)
	cartID, _ := cart["id"].(string)
	if cartID == "" {
		t.Fatalf("cart id missing from %v", cart)
	}
	if cart["status"] != "active" {
		t.Fatalf("expected active cart, got %v", cart["status"])
	}

	rec, payload = doJSON(t, router, "POST", "/api/v1/carts/"+cartID+"/items",
		`{"productId":"plan-5g-unlimited","quantity":1,"metadata":{"planType":"prepaid"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	cart = dataField(t, payload)
	items, _ := cart["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %v", cart["items"])
	}
	if subtotal, ok := cart["subtotal"].(float64); !ok || subtotal != 85.0 {
		t.Fatalf("money fields must be JSON numbers, got %v", cart["subtotal"])
	}

	item := items[0].(map[string]any)
	if item["productType"] != "plan" {
		t.Fatalf("expected derived plan type, got %v", item["productType"])
	}

	rec, payload = doJSON(t, router, "PATCH", "/api/v1/carts/"+cartID, `{"customerId":"cust-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if dataField(t, payload)["customerId"] != "cust-1" {
		t.Fatalf("customer id not applied")
	}

	rec, payload = doJSON(t, router, "POST", "/api/v1/carts/"+cartID+"/checkout",
		`{"paymentMethodId":"pm-visa-1111"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	result := dataField(t, payload)
	confirmation, _ := result["confirmationNumber"].(string)
	if !strings.HasPrefix(confirmation, "CONF-") {
		t.Fatalf("unexpected confirmation number %v", result["confirmationNumber"])
	}
	if result["status"] != "confirmed" {
		t.Fatalf("expected confirmed checkout, got %v", result["status"])
	}

	// The cart is ordered now; further item mutations conflict.
	rec, payload = doJSON(t, router, "POST", "/api/v1/carts/"+cartID+"/items",
		`{"productId":"addon-roaming-us","quantity":1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body)
	}
	if errorCode(t, payload) != "STATE_CONFLICT" {
		t.Fatalf("unexpected error %v", payload)
	}
}

func TestRemoveItemOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, payload := doJSON(t, router, "POST", "/api/v1/carts", "")
	cartID := dataField(t, payload)["id"].(string)

	_, payload = doJSON(t, router, "POST", "/api/v1/carts/"+cartID+"/items",
		`{"productId":"addon-data-10gb","quantity":2}`)
	items := dataField(t, payload)["items"].([]any)
	itemID := items[0].(map[string]any)["id"].(string)

	rec, payload := doJSON(t, router, "DELETE", fmt.Sprintf("/api/v1/carts/%s/items/%s", cartID, itemID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if remaining := dataField(t, payload)["items"].([]any); len(remaining) != 0 {
		t.Fatalf("expected empty cart, got %v", remaining)
	}

	rec, payload = doJSON(t, router, "DELETE", fmt.Sprintf("/api/v1/carts/%s/items/%s", cartID, itemID), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if errorCode(t, payload) != "ITEM_NOT_FOUND" {
		t.Fatalf("unexpected error %v", payload)
	}
}

func TestErrorStatusesOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, payload := doJSON(t, router, "POST", "/api/v1/carts", "")
	cartID := dataField(t, payload)["id"].(string)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown cart", "GET", "/api/v1/carts/3b6f84a2-6011-4f45-9d55-111111111111", "", 404, "CART_NOT_AVAILABLE"},
		{"malformed cart id", "GET", "/api/v1/carts/not-a-uuid", "", 400, "VALIDATION_ERROR"},
		{"quantity too high", "POST", "/api/v1/carts/" + cartID + "/items", `{"productId":"p1","quantity":11}`, 400, "INVALID_ITEM"},
		{"missing product id", "POST", "/api/v1/carts/" + cartID + "/items", `{"quantity":1}`, 400, "VALIDATION_ERROR"},
		{"unknown body field", "POST", "/api/v1/carts/" + cartID + "/items", `{"productId":"p1","quantity":1,"rogue":true}`, 400, "VALIDATION_ERROR"},
		{"empty checkout", "POST", "/api/v1/carts/" + cartID + "/checkout", `{"paymentMethodId":"pm-1"}`, 400, "EMPTY_CART"},
		{"checkout without payment method", "POST", "/api/v1/carts/" + cartID + "/checkout", `{}`, 400, "VALIDATION_ERROR"},
	}

	for _, tc := range cases {
		rec, payload := doJSON(t, router, tc.method, tc.path, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.status, rec.Code, rec.Body)
		}
		if code := errorCode(t, payload); code != tc.code {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.code, code)
		}
	}
}

func TestDeleteCartOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	_, payload := doJSON(t, router, "POST", "/api/v1/carts", "")
	cartID := dataField(t, payload)["id"].(string)

	rec, _ := doJSON(t, router, "DELETE", "/api/v1/carts/"+cartID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec, payload = doJSON(t, router, "GET", "/api/v1/carts/"+cartID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if errorCode(t, payload) != "CART_NOT_AVAILABLE" {
		t.Fatalf("unexpected error %v", payload)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping"} {
		rec, _ := doJSON(t, router, "GET", path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint: expected 200, got %d", rec.Code)
	}
}
