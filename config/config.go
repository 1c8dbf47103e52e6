package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// RedisAddr, when set, moves rate-limit counters to Redis so multiple
	// instances share quotas; empty means in-process counters.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"Bookshelf <no-reply@bookshelf.app>"`
	AppBaseURL   string `envconfig:"APP_BASE_URL" default:"http://localhost:3000"`

	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	VerificationTokenTTL time.Duration `envconfig:"VERIFICATION_TOKEN_TTL" default:"24h"`
	ResetTokenTTL        time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`
	CleanupInterval      time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`

	AuthRateLimit   int           `envconfig:"AUTH_RATE_LIMIT" default:"10"`
	AuthRateWindow  time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`
	EmailRateLimit  int           `envconfig:"EMAIL_RATE_LIMIT" default:"5"`
	EmailRateWindow time.Duration `envconfig:"EMAIL_RATE_WINDOW" default:"1h"`
	ResetRateLimit  int           `envconfig:"RESET_RATE_LIMIT" default:"5"`
	ResetRateWindow time.Duration `envconfig:"RESET_RATE_WINDOW" default:"1h"`

	BcryptCost int `envconfig:"BCRYPT_COST" default:"0"`
}

// Load reads .env if present, then the environment. A missing .env is
// normal outside development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
