package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "parceldrop"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Stripe       StripeConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PARCELDROP_APP_ENV" required:"true"`
	Port         string `envconfig:"PARCELDROP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARCELDROP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARCELDROP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PARCELDROP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PARCELDROP_DB_DSN"`
	Driver string `envconfig:"PARCELDROP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARCELDROP_DB_HOST"`
	LegacyPort     int    `envconfig:"PARCELDROP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARCELDROP_DB_USER"`
	LegacyPassword string `envconfig:"PARCELDROP_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARCELDROP_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARCELDROP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARCELDROP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARCELDROP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARCELDROP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARCELDROP_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// StatementTimeout bounds every store call so no operation blocks
	// indefinitely; timeouts surface to the caller as retryable failures.
	StatementTimeout time.Duration `envconfig:"PARCELDROP_DB_STATEMENT_TIMEOUT" default:"5s"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either PARCELDROP_DB_DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PARCELDROP_REDIS_URL" required:"true"`
	Password     string        `envconfig:"PARCELDROP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARCELDROP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARCELDROP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARCELDROP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARCELDROP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARCELDROP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARCELDROP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PARCELDROP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PARCELDROP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PARCELDROP_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"PARCELDROP_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the configured session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PARCELDROP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PARCELDROP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PARCELDROP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PARCELDROP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PARCELDROP_ARGON_KEY_LEN" default:"32"`
}

type StripeConfig struct {
	APIKey   string `envconfig:"PARCELDROP_STRIPE_API_KEY"`
	Env      string `envconfig:"PARCELDROP_STRIPE_ENV" default:"test"`
	Currency string `envconfig:"PARCELDROP_STRIPE_CURRENCY" default:"usd"`
}

// Environment reports the configured Stripe environment.
func (s StripeConfig) Environment() string {
	return s.Env
}

type CronConfig struct {
	Interval         time.Duration `envconfig:"PARCELDROP_CRON_INTERVAL" default:"15m"`
	LockTTL          time.Duration `envconfig:"PARCELDROP_CRON_LOCK_TTL" default:"20m"`
	ReconcileBatch   int           `envconfig:"PARCELDROP_CRON_RECONCILE_BATCH" default:"200"`
	ReconcileMinAge  time.Duration `envconfig:"PARCELDROP_CRON_RECONCILE_MIN_AGE" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PARCELDROP_FF_AUTO_MIGRATE" default:"false"`
}
