package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telnova/cart-backend/api/controllers"
	cartcontrollers "github.com/telnova/cart-backend/api/controllers/cart"
	"github.com/telnova/cart-backend/api/middleware"
	cartsvc "github.com/telnova/cart-backend/internal/cart"
	checkoutsvc "github.com/telnova/cart-backend/internal/checkout"
	"github.com/telnova/cart-backend/pkg/config"
	"github.com/telnova/cart-backend/pkg/logger"
)

// NewRouter assembles the HTTP surface. readiness may be nil when the store
// backend has no external dependency; metricsReg may be nil to disable the
// metrics endpoint.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness controllers.ReadinessCheck,
	metricsReg *prometheus.Registry,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsReg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/carts", func(r chi.Router) {
		r.Post("/", cartcontrollers.CartCreate(cartService, logg))

		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Patch("/", cartcontrollers.CartUpdate(cartService, logg))
			r.Delete("/", cartcontrollers.CartDelete(cartService, logg))

			r.Post("/items", cartcontrollers.ItemAdd(cartService, logg))
			r.Delete("/items/{itemID}", cartcontrollers.ItemRemove(cartService, logg))

			r.Post("/checkout", cartcontrollers.Checkout(checkoutService, logg))
		})
	})

	return r
}
