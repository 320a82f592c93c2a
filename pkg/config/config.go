package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VELARIA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Dashboard    DashboardConfig
	Outbox       OutboxConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELARIA_APP_ENV" required:"true"`
	Port         string `envconfig:"VELARIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VELARIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELARIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VELARIA_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"VELARIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELARIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELARIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELARIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELARIA_REDIS_URL"`
	Address      string        `envconfig:"VELARIA_REDIS_ADDR"`
	Password     string        `envconfig:"VELARIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELARIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELARIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELARIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELARIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELARIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELARIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VELARIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VELARIA_JWT_ISSUER" default:"velaria"`
	ExpirationMinutes int    `envconfig:"VELARIA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type DashboardConfig struct {
	StatsCacheTTL time.Duration `envconfig:"VELARIA_DASHBOARD_STATS_CACHE_TTL" default:"15s"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VELARIA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VELARIA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VELARIA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VELARIA_AUTO_MIGRATE" default:"false"`
}
