package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App   AppConfig
	Cart  CartConfig
	Store StoreConfig
	Redis RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Cart.ParsedTaxRate(); err != nil {
		return nil, err
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARTAPI_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTAPI_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARTAPI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTAPI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CartConfig struct {
	TTL         time.Duration `envconfig:"CARTAPI_CART_TTL" default:"30m"`
	TaxRate     string        `envconfig:"CARTAPI_CART_TAX_RATE" default:"0.13"`
	MinQuantity int           `envconfig:"CARTAPI_CART_MIN_QUANTITY" default:"1"`
	MaxQuantity int           `envconfig:"CARTAPI_CART_MAX_QUANTITY" default:"10"`
}

// ParsedTaxRate returns the flat tax rate as a decimal.
func (c CartConfig) ParsedTaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing tax rate %q: %w", c.TaxRate, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("tax rate %q must be non-negative", c.TaxRate)
	}
	return rate, nil
}

type StoreConfig struct {
	Backend string `envconfig:"CARTAPI_STORE_BACKEND" default:"memory"`
}

func (s StoreConfig) IsRedis() bool {
	return strings.EqualFold(s.Backend, StoreBackendRedis)
}

func (s StoreConfig) validate() error {
	switch strings.ToLower(s.Backend) {
	case StoreBackendMemory, StoreBackendRedis:
		return nil
	}
	return fmt.Errorf("unknown store backend %q", s.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTAPI_REDIS_URL"`
	Address      string        `envconfig:"CARTAPI_REDIS_ADDR"`
	Password     string        `envconfig:"CARTAPI_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTAPI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTAPI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTAPI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTAPI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTAPI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTAPI_REDIS_WRITE_TIMEOUT" default:"5s"`
}
