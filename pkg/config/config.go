package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Pricing       PricingConfig
	Gateway       GatewayConfig
	Session       SessionConfig
	Admin         AdminConfig
	Storefront    StorefrontConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GALLERY_APP_ENV" required:"true"`
	Port         string `envconfig:"GALLERY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GALLERY_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"GALLERY_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"GALLERY_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"GALLERY_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GALLERY_DB_DSN"`
	Driver string `envconfig:"GALLERY_DB_DRIVER" default:"postgres"`

	SQLitePath string `envconfig:"GALLERY_SQLITE_PATH" default:"gallery.db"`

	LegacyHost     string `envconfig:"GALLERY_DB_HOST"`
	LegacyPort     int    `envconfig:"GALLERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GALLERY_DB_USER"`
	LegacyPassword string `envconfig:"GALLERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"GALLERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"GALLERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GALLERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GALLERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GALLERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GALLERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GALLERY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GALLERY_REDIS_ADDR"`
	Password     string        `envconfig:"GALLERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GALLERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GALLERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GALLERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GALLERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GALLERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GALLERY_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyNamespace string        `envconfig:"GALLERY_REDIS_NAMESPACE" default:"gallery"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GALLERY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GALLERY_JWT_ISSUER" default:"daghlis-gallery"`
	ExpirationMinutes      int    `envconfig:"GALLERY_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"GALLERY_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GALLERY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GALLERY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GALLERY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GALLERY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GALLERY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GALLERY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"GALLERY_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GALLERY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	ContactWindow      time.Duration `envconfig:"GALLERY_RATE_LIMIT_CONTACT_WINDOW" default:"10m"`
	ContactIPLimit     int           `envconfig:"GALLERY_RATE_LIMIT_CONTACT_IP_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GALLERY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GALLERY_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"GALLERY_SEED_CATALOG" default:"true"`
}

// PricingConfig holds the shipping and tax policy in major currency units.
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"GALLERY_PRICING_FREE_SHIPPING_THRESHOLD" default:"100.00"`
	DomesticFee           decimal.Decimal `envconfig:"GALLERY_PRICING_DOMESTIC_FEE" default:"15.00"`
	RegionalFee           decimal.Decimal `envconfig:"GALLERY_PRICING_REGIONAL_FEE" default:"25.00"`
	InternationalFee      decimal.Decimal `envconfig:"GALLERY_PRICING_INTERNATIONAL_FEE" default:"45.00"`
	TaxRate               decimal.Decimal `envconfig:"GALLERY_PRICING_TAX_RATE" default:"0.20"`
}

func (p PricingConfig) validate() error {
	fees := map[string]decimal.Decimal{
		EnvPricingFreeShippingThreshold: p.FreeShippingThreshold,
		EnvPricingDomesticFee:           p.DomesticFee,
		EnvPricingRegionalFee:           p.RegionalFee,
		EnvPricingInternationalFee:      p.InternationalFee,
		EnvPricingTaxRate:               p.TaxRate,
	}
	for env, value := range fees {
		if value.IsNegative() {
			return fmt.Errorf("%s must not be negative", env)
		}
	}
	if p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be a fraction between 0 and 1", EnvPricingTaxRate)
	}
	return nil
}

type GatewayConfig struct {
	BaseURL string        `envconfig:"GALLERY_GATEWAY_BASE_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"GALLERY_GATEWAY_TIMEOUT" default:"15s"`

	BreakerMaxRequests      uint32        `envconfig:"GALLERY_GATEWAY_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval         time.Duration `envconfig:"GALLERY_GATEWAY_BREAKER_INTERVAL" default:"60s"`
	BreakerOpenTimeout      time.Duration `envconfig:"GALLERY_GATEWAY_BREAKER_OPEN_TIMEOUT" default:"30s"`
	BreakerFailureThreshold uint32        `envconfig:"GALLERY_GATEWAY_BREAKER_FAILURE_THRESHOLD" default:"5"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"GALLERY_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"GALLERY_SESSION_SWEEP_INTERVAL" default:"5m"`
}

type AdminConfig struct {
	Username     string `envconfig:"GALLERY_ADMIN_USERNAME" default:"admin"`
	PasswordHash string `envconfig:"GALLERY_ADMIN_PASSWORD_HASH" required:"true"`
}

type StorefrontConfig struct {
	DefaultLanguage string `envconfig:"GALLERY_DEFAULT_LANGUAGE" default:"en"`
	Currency        string `envconfig:"GALLERY_CURRENCY" default:"EUR"`
}

// CronConfig drives the background order reconciliation worker.
type CronConfig struct {
	Interval           time.Duration `envconfig:"GALLERY_CRON_INTERVAL" default:"10m"`
	LockTTL            time.Duration `envconfig:"GALLERY_CRON_LOCK_TTL" default:"10m"`
	OrderSyncGrace     time.Duration `envconfig:"GALLERY_CRON_ORDER_SYNC_GRACE" default:"15m"`
	PendingOrderExpiry time.Duration `envconfig:"GALLERY_CRON_PENDING_ORDER_EXPIRY" default:"72h"`
	BatchSize          int           `envconfig:"GALLERY_CRON_BATCH_SIZE" default:"100"`
	MetricsPort        string        `envconfig:"GALLERY_CRON_METRICS_PORT"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
