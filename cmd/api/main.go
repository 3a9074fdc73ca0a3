package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/telnova/cart-backend/api/controllers"
	"github.com/telnova/cart-backend/api/routes"
	cartsvc "github.com/telnova/cart-backend/internal/cart"
	"github.com/telnova/cart-backend/internal/cartstore"
	"github.com/telnova/cart-backend/internal/catalog"
	checkoutsvc "github.com/telnova/cart-backend/internal/checkout"
	"github.com/telnova/cart-backend/pkg/config"
	"github.com/telnova/cart-backend/pkg/logger"
	"github.com/telnova/cart-backend/pkg/metrics"
	"github.com/telnova/cart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cart-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cart-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	taxRate, err := cfg.Cart.ParsedTaxRate()
	if err != nil {
		logg.Error(context.Background(), "invalid tax rate", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(reg)

	var (
		store     cartstore.Store
		readiness controllers.ReadinessCheck
	)
	if cfg.Store.IsRedis() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		store = cartstore.NewRedisStore(redisClient, cfg.Cart.TTL)
		readiness = redisClient.Ping
	} else {
		store = cartstore.NewMemoryStore(cfg.Cart.TTL)
	}

	locks := cartstore.NewKeyedLock()

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Store:       store,
		Locks:       locks,
		Catalog:     catalog.NewStaticGateway(),
		Logger:      logg,
		Metrics:     cartMetrics,
		TaxRate:     taxRate,
		MinQuantity: cfg.Cart.MinQuantity,
		MaxQuantity: cfg.Cart.MaxQuantity,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Store:   store,
		Locks:   locks,
		Logger:  logg,
		Metrics: cartMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"store_backend": cfg.Store.Backend,
	})
	logg.Info(ctx, "starting cart api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, readiness, reg, cartService, checkoutService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "cart api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
