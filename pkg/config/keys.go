package config

const (
	EnvPrefix = "GALLERY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "GALLERY_APP_ENV"
	EnvPort      = "GALLERY_APP_PORT"
	EnvLogLevel  = "GALLERY_LOG_LEVEL"
	EnvLogFormat = "GALLERY_LOG_FORMAT"

	EnvDBDSN  = "GALLERY_DB_DSN"
	EnvDBHost = "GALLERY_DB_HOST"
	EnvDBUser = "GALLERY_DB_USER"
	EnvDBName = "GALLERY_DB_NAME"

	EnvRedisURL = "GALLERY_REDIS_URL"

	EnvJWTSecret               = "GALLERY_JWT_SECRET"
	EnvJWTIssuer               = "GALLERY_JWT_ISSUER"
	EnvJWTExpMins              = "GALLERY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "GALLERY_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite               = "GALLERY_USE_SQLITE"
	EnvAdminUsername           = "GALLERY_ADMIN_USERNAME"
	EnvAdminPasswordHash       = "GALLERY_ADMIN_PASSWORD_HASH"
	EnvGatewayBaseURL          = "GALLERY_GATEWAY_BASE_URL"
	EnvGatewayTimeout          = "GALLERY_GATEWAY_TIMEOUT"
	EnvSessionIdleTTL          = "GALLERY_SESSION_IDLE_TTL"
	EnvDefaultLanguage         = "GALLERY_DEFAULT_LANGUAGE"
	EnvPricingTaxRate          = "GALLERY_PRICING_TAX_RATE"
	EnvPricingDomesticFee      = "GALLERY_PRICING_DOMESTIC_FEE"
	EnvPricingRegionalFee      = "GALLERY_PRICING_REGIONAL_FEE"
	EnvPricingInternationalFee = "GALLERY_PRICING_INTERNATIONAL_FEE"

	EnvPricingFreeShippingThreshold = "GALLERY_PRICING_FREE_SHIPPING_THRESHOLD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
