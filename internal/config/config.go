package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Employee Expense Management API"`
		Port      int    `envconfig:"PORT" default:"8080"`
		Env       string `envconfig:"APP_ENV" default:"development"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Driver string `envconfig:"DB_DRIVER" default:"sqlite"`

		// SQLite
		Path         string `envconfig:"DATABASE_PATH" default:"expense_manager.db"`
		TestMode     bool   `envconfig:"TEST_MODE" default:"false"`
		TestDataPath string `envconfig:"TEST_DATABASE_PATH"`

		// Postgres
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"expenses"`
	}

	Auth struct {
		Secret       string        `envconfig:"JWT_SECRET_KEY"`
		TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
		CookieSecure bool          `envconfig:"COOKIE_SECURE" default:"false"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
	}

	Seed struct {
		SampleUser bool `envconfig:"SEED_SAMPLE_USER" default:"false"`
	}
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.DB.Driver == DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return c.DatabasePath()
}

// DatabasePath resolves the SQLite file, preferring TEST_DATABASE_PATH in test mode.
func (c *Config) DatabasePath() string {
	if c.DB.TestMode && c.DB.TestDataPath != "" {
		return c.DB.TestDataPath
	}

	return c.DB.Path
}

// Validate checks the settings the API server cannot start without.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DatabasePath() == "" {
			return errors.New("database path is not configured")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET_KEY must be set")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
