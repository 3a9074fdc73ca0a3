package config

// EnvPrefix is handed to envconfig; individual fields carry fully qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

const (
	EnvAppEnv       = "CARTAPI_APP_ENV"
	EnvAppPort      = "CARTAPI_APP_PORT"
	EnvLogLevel     = "CARTAPI_LOG_LEVEL"
	EnvCartTTL      = "CARTAPI_CART_TTL"
	EnvCartTaxRate  = "CARTAPI_CART_TAX_RATE"
	EnvStoreBackend = "CARTAPI_STORE_BACKEND"
	EnvRedisURL     = "CARTAPI_REDIS_URL"
)
