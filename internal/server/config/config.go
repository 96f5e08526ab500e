// Package config handles configuration for the server component,
// including defaults, environment overlay, and command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the authgate server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - SecretKey: HMAC secret for signing tokens (HS256). Required.
//   - AccessTokenValidityDuration / SessionTokenValidityDuration: token lifetimes.
//   - GoogleClientID / GoogleClientSecret / GoogleRedirectURL: identity-provider
//     client settings; when empty the federated endpoints fail closed.
type Config struct {
	EndpointAddrHTTP             string        `env:"AUTHGATE_ADDR"`
	DatabaseDSN                  string        `env:"AUTHGATE_DATABASE_DSN"`
	SecretKey                    string        `env:"AUTHGATE_JWT_SECRET"`
	AccessTokenValidityDuration  time.Duration `env:"AUTHGATE_ACCESS_TOKEN_TTL"`
	SessionTokenValidityDuration time.Duration `env:"AUTHGATE_SESSION_TOKEN_TTL"`
	GoogleClientID               string        `env:"AUTHGATE_GOOGLE_CLIENT_ID"`
	GoogleClientSecret           string        `env:"AUTHGATE_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL            string        `env:"AUTHGATE_GOOGLE_REDIRECT_URI"`
}

// LoadDefaults populates Config with development defaults. The signing secret
// and the database DSN have no default: both must be provided explicitly.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.SessionTokenValidityDuration = 7 * 24 * time.Hour
}

// Validate checks the settings a process cannot start without. Provider
// credentials are intentionally not required here; their absence only
// disables the federated login flow.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("signing secret is not set (AUTHGATE_JWT_SECRET)")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is not set (AUTHGATE_DATABASE_DSN)")
	}
	return nil
}

// GoogleConfigured reports whether all provider client settings are present.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
