package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records engine operation outcomes and store-level misses.
type CartMetrics struct {
	operations *prometheus.CounterVec
	misses     *prometheus.CounterVec
	checkouts  *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart engine operations by operation and result.",
	}, []string{"operation", "result"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_store_misses_total",
		Help: "Cart store misses split by cause.",
	}, []string{"reason"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_checkouts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	reg.MustRegister(operations, misses, checkouts)
	return &CartMetrics{
		operations: operations,
		misses:     misses,
		checkouts:  checkouts,
	}
}

// IncOperation counts one engine operation with its result label.
func (c *CartMetrics) IncOperation(operation, result string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// IncStoreMiss counts a store miss. Reason separates "missing" from "expired"
// even though both surface the same code to callers.
func (c *CartMetrics) IncStoreMiss(reason string) {
	if c == nil || c.misses == nil {
		return
	}
	c.misses.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCheckout counts a checkout attempt with its result label.
func (c *CartMetrics) IncCheckout(result string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
