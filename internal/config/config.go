package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend modes.
const (
	BackendMock     = "mock"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// Session modes.
const (
	SessionAnonymous = "anonymous"
	SessionFixed     = "fixed"
	SessionJWT       = "jwt"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Backend   BackendConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Payments  PaymentsConfig
	Redis     RedisConfig
	Seed      SeedConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	BaseURL         string        `envconfig:"SERVER_BASE_URL" default:"http://localhost:8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"` // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`      // debug, info, warn, error
	ServiceName string `envconfig:"APP_SERVICE_NAME" default:"linkbio"`
	Version     string `envconfig:"APP_VERSION" default:"dev"`
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// BackendConfig selects the data store implementation.
type BackendConfig struct {
	Mode string `envconfig:"BACKEND_MODE"` // mock, postgres, none; empty derives from APP_ENV
}

// Resolve fills an empty Mode from the environment: development and test run
// against the in-memory mock, everything else gets the unimplemented backend
// so mock data never ships to production by accident.
func (c *BackendConfig) Resolve(environment string) {
	if c.Mode != "" {
		return
	}
	switch environment {
	case "development", "test", "":
		c.Mode = BackendMock
	default:
		c.Mode = BackendNone
	}
}

// Validate validates the backend configuration.
func (c *BackendConfig) Validate() error {
	switch c.Mode {
	case BackendMock, BackendPostgres, BackendNone:
		return nil
	default:
		return fmt.Errorf("invalid backend mode: %s (must be one of: mock, postgres, none)", c.Mode)
	}
}

// DatabaseConfig holds database connection configuration.
// It is only loaded and validated for the postgres backend.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"true"`
	Port     string `envconfig:"DB_PORT" required:"true"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// SessionConfig controls how the current user is resolved.
type SessionConfig struct {
	Mode      string        `envconfig:"SESSION_MODE"` // anonymous, fixed, jwt; see Resolve
	UserID    string        `envconfig:"SESSION_USER_ID"`
	JWTSecret string        `envconfig:"AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
}

// Resolve fills in an unset Mode: jwt when a signing secret is configured,
// otherwise anonymous, so a bare start has no signed-in user.
func (c *SessionConfig) Resolve() {
	if c.Mode != "" {
		return
	}
	if c.JWTSecret != "" {
		c.Mode = SessionJWT
		return
	}
	c.Mode = SessionAnonymous
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	switch c.Mode {
	case SessionAnonymous:
	case SessionFixed:
		if c.UserID == "" {
			return fmt.Errorf("SESSION_USER_ID is required when session mode is fixed")
		}
	case SessionJWT:
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters when session mode is jwt")
		}
		if c.TokenTTL <= 0 {
			return fmt.Errorf("token TTL must be positive")
		}
	default:
		return fmt.Errorf("invalid session mode: %s (must be one of: anonymous, fixed, jwt)", c.Mode)
	}
	return nil
}

// PaymentsConfig configures the payment session stub.
type PaymentsConfig struct {
	Stub        bool   `envconfig:"PAYMENTS_STUB"`
	ProviderURL string `envconfig:"PAYMENTS_PROVIDER_URL" default:"https://mock-payment-provider.com"`
}

// Validate validates the payments configuration.
func (c *PaymentsConfig) Validate() error {
	if c.ProviderURL == "" {
		return fmt.Errorf("payment provider URL cannot be empty")
	}
	return nil
}

// UseStub reports whether payment sessions are served by the stub.
func (c *PaymentsConfig) UseStub(backendMode string) bool {
	return c.Stub || backendMode == BackendMock
}

// RedisConfig configures the optional analytics cache.
type RedisConfig struct {
	URL      string        `envconfig:"REDIS_URL"`
	StatsTTL time.Duration `envconfig:"REDIS_STATS_TTL" default:"5m"`
}

// Validate validates the redis configuration.
func (c *RedisConfig) Validate() error {
	if c.URL != "" && c.StatsTTL <= 0 {
		return fmt.Errorf("stats TTL must be positive")
	}
	return nil
}

// SeedConfig controls startup seeding.
type SeedConfig struct {
	File string `envconfig:"SEED_FILE"`
	Demo bool   `envconfig:"SEED_DEMO" default:"true"`
}

// RateLimitConfig limits click tracking per client IP.
type RateLimitConfig struct {
	ClicksPerMinute int `envconfig:"RATE_LIMIT_CLICKS_PER_MINUTE" default:"120"`
}

// Validate validates the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	if c.ClicksPerMinute <= 0 {
		return fmt.Errorf("clicks per minute must be positive")
	}
	return nil
}

// Load loads configuration from environment variables only.
// (Do .env loading in the app package, not here.)
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load Server config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.App); err != nil {
		return nil, fmt.Errorf("failed to load App config: %w", err)
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid App config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Backend); err != nil {
		return nil, fmt.Errorf("failed to load Backend config: %w", err)
	}
	cfg.Backend.Resolve(cfg.App.Environment)
	if err := cfg.Backend.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Backend config: %w", err)
	}

	// Only the postgres backend needs connection settings.
	if cfg.Backend.Mode == BackendPostgres {
		if err := envconfig.Process("", &cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to load Database config: %w", err)
		}
		if err := cfg.Database.Validate(); err != nil {
			return nil, fmt.Errorf("invalid Database config: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg.Session); err != nil {
		return nil, fmt.Errorf("failed to load Session config: %w", err)
	}
	cfg.Session.Resolve()
	if err := cfg.Session.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Session config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Payments); err != nil {
		return nil, fmt.Errorf("failed to load Payments config: %w", err)
	}
	if err := cfg.Payments.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Payments config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Redis); err != nil {
		return nil, fmt.Errorf("failed to load Redis config: %w", err)
	}
	if err := cfg.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Redis config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Seed); err != nil {
		return nil, fmt.Errorf("failed to load Seed config: %w", err)
	}

	if err := envconfig.Process("", &cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("failed to load RateLimit config: %w", err)
	}
	if err := cfg.RateLimit.Validate(); err != nil {
		return nil, fmt.Errorf("invalid RateLimit config: %w", err)
	}

	return cfg, nil
}
