package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds the complete application configuration
type Config struct {
	Environment Environment `env:"TRANSLATESCORE_ENV" envDefault:"development"`
	Profile     string      `env:"TRANSLATESCORE_PROFILE" envDefault:"default"`

	Server   ServerConfig   `envPrefix:"TRANSLATESCORE_SERVER_"`
	Storage  StorageConfig  `envPrefix:"TRANSLATESCORE_STORAGE_"`
	Notify   NotifyConfig   `envPrefix:"TRANSLATESCORE_NOTIFY_"`
	Webhook  WebhookConfig  `envPrefix:"TRANSLATESCORE_WEBHOOK_"`
	Logging  LoggingConfig  `envPrefix:"TRANSLATESCORE_LOG_"`
	Security SecurityConfig `envPrefix:"TRANSLATESCORE_SECURITY_"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address           string        `env:"ADDR" envDefault:":8080"`
	PathPrefix        string        `env:"PATH_PREFIX" envDefault:""`
	CORSOrigin        string        `env:"CORS_ORIGIN" envDefault:""`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// StorageConfig holds storage adapter configuration
type StorageConfig struct {
	Adapter string      `env:"ADAPTER" envDefault:"memory"`
	Redis   RedisConfig `envPrefix:"REDIS_"`
	SQL     SQLConfig   `envPrefix:"SQL_"`
	File    FileConfig  `envPrefix:"FILE_"`
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}

// SQLConfig holds SQL connection settings
type SQLConfig struct {
	DSN          string `env:"DSN" envDefault:"postgres://localhost/translatescore?sslmode=disable"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
}

// FileConfig holds JSON file storage configuration
type FileConfig struct {
	Path string `env:"PATH" envDefault:"data/reputation.json"`
}

// NotifyConfig holds push-delivery gateway configuration. An empty endpoint
// disables delivery entirely.
type NotifyConfig struct {
	Endpoint string        `env:"ENDPOINT" envDefault:""`
	APIKey   string        `env:"API_KEY" envDefault:""`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// WebhookConfig lists endpoints that receive every scoring event as JSON.
type WebhookConfig struct {
	Endpoints []string `env:"ENDPOINTS" envSeparator:","`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	EnableRateLimit bool            `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimit       RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	APIKeys         []string        `env:"API_KEYS" envSeparator:","`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `env:"RPM" envDefault:"120"`
	BurstSize         int `env:"BURST" envDefault:"20"`
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
