package controllers

import (
	"context"
	"net/http"

	"github.com/telnova/cart-backend/api/responses"
	"github.com/telnova/cart-backend/pkg/config"
	pkgerrors "github.com/telnova/cart-backend/pkg/errors"
	"github.com/telnova/cart-backend/pkg/logger"
)

// ReadinessCheck probes a backing dependency. A nil check means the service
// has no external dependencies to wait on.
type ReadinessCheck func(ctx context.Context) error

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CartAPI-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, check ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CartAPI-Env", cfg.App.Env)
		if check != nil {
			if err := check(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
