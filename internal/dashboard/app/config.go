package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the dashboard service. Values come from
// environment variables; every field except APIURL has a usable default.
type Config struct {
	// APIURL is the upstream API origin, without a version path segment.
	APIURL string `env:"API_URL,required,notEmpty"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// DatabaseFile is the SQLite file credentials are persisted to.
	DatabaseFile string `env:"DASHBOARD_DATABASE_FILE" envDefault:"dashboard.db"`

	// APIRequestTimeout bounds every upstream call, refresh included.
	APIRequestTimeout time.Duration `env:"API_REQUEST_TIMEOUT" envDefault:"30s"`

	// CookieSecure marks the mirrored credential cookie Secure. Leave off
	// only for plain-HTTP local development.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	// BreakerEnabled turns on the upstream circuit breaker.
	BreakerEnabled bool `env:"API_BREAKER_ENABLED" envDefault:"true"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.APIRequestTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid api request timeout: %s", cfg.APIRequestTimeout)
	}
	return cfg, nil
}
