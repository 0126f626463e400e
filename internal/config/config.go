package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/fashly/pkg/config"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// InstanceID tags relayed events; empty means a random ID per process.
	InstanceID string `env:"INSTANCE_ID"`

	// Persistence
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`

	// Session records expire after this many hours (0 keeps them forever).
	SessionTTLHours int `env:"SESSION_TTL_HOURS" envDefault:"720"`
	// Cached sessions idle longer than this are flushed and dropped.
	SessionIdleMinutes int `env:"SESSION_IDLE_MINUTES" envDefault:"30"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"fashly"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"fashly"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"fashly"`
	PostgresSSL  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Database pool
	DBMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns int32 `env:"DB_MIN_CONNS" envDefault:"2"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Kafka; no brokers disables cross-instance sync.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Catalog
	CatalogURL string `env:"CATALOG_URL"`

	// Checkout pricing (IDR)
	ShippingFlatFee       int64    `env:"SHIPPING_FLAT_FEE" envDefault:"25000"`
	FreeShippingThreshold int64    `env:"FREE_SHIPPING_THRESHOLD" envDefault:"500000"`
	CouponCodes           []string `env:"COUPON_CODES" envDefault:"FASHLY10" envSeparator:","`
	CouponPercent         int      `env:"COUPON_PERCENT" envDefault:"10"`

	// Rate limiting; 0 disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	for i, code := range cfg.CouponCodes {
		cfg.CouponCodes[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains([]string{StorageMemory, StorageRedis, StoragePostgres}, c.StorageDriver) {
		return fmt.Errorf("STORAGE_DRIVER must be one of memory, redis, postgres, got %q", c.StorageDriver)
	}
	if c.StorageDriver == StoragePostgres && (c.PostgresHost == "" || c.PostgresUser == "") {
		return fmt.Errorf("POSTGRES_HOST and POSTGRES_USER are required for the postgres driver")
	}
	if c.SessionTTLHours < 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must not be negative, got %d", c.SessionTTLHours)
	}
	if c.SessionIdleMinutes < 0 {
		return fmt.Errorf("SESSION_IDLE_MINUTES must not be negative, got %d", c.SessionIdleMinutes)
	}
	if c.ShippingFlatFee < 0 || c.FreeShippingThreshold < 0 {
		return fmt.Errorf("shipping fee and free shipping threshold must not be negative")
	}
	if c.CouponPercent < 0 || c.CouponPercent > 100 {
		return fmt.Errorf("COUPON_PERCENT must be between 0 and 100, got %d", c.CouponPercent)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// SessionTTL is how long persisted session records are kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// SessionIdle is how long a cached session may go unused.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// KafkaEnabled reports whether cross-instance sync is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
