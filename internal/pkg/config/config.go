package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// developmentSessionSecret signs cookies when ENV=development and no secret is set.
const developmentSessionSecret = "farmers-connect-development-session-secret"

const minSessionSecretLen = 32

var (
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is required outside development")
	ErrWeakSessionSecret    = fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	ErrInvalidBackendURL    = errors.New("BACKEND_BASE_URL must be an absolute http(s) URL")
)

type BackendConfig struct {
	BaseURL     string        `env:"BACKEND_BASE_URL, default=https://localhost:7108"`
	Timeout     time.Duration `env:"BACKEND_TIMEOUT, default=30s"`
	InsecureTLS bool          `env:"BACKEND_INSECURE_TLS, default=false"`
}

type SessionConfig struct {
	Name   string        `env:"SESSION_NAME, default=farmers_connect_session"`
	Secret string        `env:"SESSION_SECRET"`
	MaxAge time.Duration `env:"SESSION_MAX_AGE, default=168h"`
	Secure bool          `env:"SESSION_SECURE, default=false"`
	// JWTVerifyKey, when set, makes the identity decoder reject tokens whose
	// HMAC signature does not verify.
	JWTVerifyKey string `env:"JWT_VERIFY_KEY"`
}

type ObservabilityConfig struct {
	MetricsAddr  string `env:"METRICS_ADDR, default=:9092"`
	PprofAddr    string `env:"PPROF_ADDR"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type Config struct {
	ServerPort  string `env:"SERVER_PORT, default=8091"`
	Env         string `env:"ENV, default=development"`
	LogLevel    string `env:"LOG_LEVEL, default=info"`
	ServiceName string `env:"SERVICE_NAME, default=farmers-connect-ui"`

	Backend       BackendConfig
	Session       SessionConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBackendURL
	}

	switch {
	case c.Session.Secret == "" && c.IsDevelopment():
		c.Session.Secret = developmentSessionSecret
	case c.Session.Secret == "":
		return ErrMissingSessionSecret
	case len(c.Session.Secret) < minSessionSecretLen && !c.IsDevelopment():
		return ErrWeakSessionSecret
	}

	return nil
}
