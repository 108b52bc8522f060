package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "STOREFRONT"

// Storage backends.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	API     APIConfig
	Storage StorageConfig
	Logger  LoggerConfig
	Metrics MetricsConfig
	S3      S3Config
	Mock    MockConfig
}

// APIConfig holds the backend REST API settings.
type APIConfig struct {
	BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`
}

// StorageConfig selects where local persistent state lives.
type StorageConfig struct {
	Backend  string `envconfig:"STORAGE_BACKEND" default:"file"`
	Path     string `envconfig:"STORAGE_PATH" default:".storefront/storage.json"`
	RedisURL string `envconfig:"REDIS_URL"`
	Channel  string `envconfig:"REDIS_CHANNEL" default:"storefront:storage"`
	Prefix   string `envconfig:"REDIS_PREFIX" default:"storefront"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"console"` // "json" or "console"
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	File string `envconfig:"METRICS_FILE"`
}

// S3Config holds AWS S3 configuration for bulk-init catalog files.
type S3Config struct {
	Enabled bool   `envconfig:"S3_ENABLED" default:"false"`
	Bucket  string `envconfig:"S3_BUCKET"`
	Region  string `envconfig:"S3_REGION" default:"us-east-1"`
	Prefix  string `envconfig:"S3_PREFIX" default:"catalogs/"`
}

// MockConfig configures the in-memory stand-in backend.
type MockConfig struct {
	Host             string `envconfig:"MOCK_HOST" default:"0.0.0.0"`
	Port             int    `envconfig:"MOCK_PORT" default:"3000"`
	JWTSecret        string `envconfig:"MOCK_JWT_SECRET" default:"dev-secret"`
	EmployeeEmail    string `envconfig:"MOCK_EMPLOYEE_EMAIL" default:"employee@example.com"`
	EmployeePassword string `envconfig:"MOCK_EMPLOYEE_PASSWORD" default:"employee"`
	SeedFile         string `envconfig:"MOCK_SEED_FILE"` // optional catalog file replacing the default products
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("HTTP timeout cannot be negative")
	}

	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the file backend")
		}
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("redis URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be file, memory, or redis)", c.Storage.Backend)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Mock.Port < 1 || c.Mock.Port > 65535 {
		return fmt.Errorf("invalid mock server port: %d", c.Mock.Port)
	}

	if c.Mock.JWTSecret == "" {
		return fmt.Errorf("mock JWT secret cannot be empty")
	}

	return nil
}

// Address returns the mock server listen address.
func (c *MockConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
