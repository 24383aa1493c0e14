// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :5050).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// GoogleClientID is the OAuth client id for the Google sign-in flow. Required.
	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`
	// GoogleClientSecret is the OAuth client secret for the Google sign-in flow. Required.
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	// GoogleCallbackURL is the absolute redirect URL registered with Google
	// (e.g. http://localhost:5050/auth/google/callback). Required.
	GoogleCallbackURL string `mapstructure:"GOOGLE_CALLBACK_URL"`
	// SessionPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; signs session tokens.
	SessionPrivateKey string `mapstructure:"SESSION_PRIVATE_KEY"`
	// SessionPublicKey is the PEM-encoded public key or path to file; verifies session tokens.
	SessionPublicKey string `mapstructure:"SESSION_PUBLIC_KEY"`
	// SessionIssuer is the iss claim on session tokens.
	SessionIssuer string `mapstructure:"SESSION_ISSUER"`
	// SessionTTL is the session token lifetime (e.g. "24h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint for telemetry; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required
// fields are missing; the Google client config in particular must fail here, at startup,
// rather than on the first sign-in attempt.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":5050")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_CALLBACK_URL", "")
	v.SetDefault("SESSION_PRIVATE_KEY", "")
	v.SetDefault("SESSION_PUBLIC_KEY", "")
	v.SetDefault("SESSION_ISSUER", "secrets-portal")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.GoogleClientID == "" {
		return nil, errors.New("config: GOOGLE_CLIENT_ID must be set")
	}
	if cfg.GoogleClientSecret == "" {
		return nil, errors.New("config: GOOGLE_CLIENT_SECRET must be set")
	}
	if cfg.GoogleCallbackURL == "" {
		return nil, errors.New("config: GOOGLE_CALLBACK_URL must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// SessionTTLDuration parses SessionTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
