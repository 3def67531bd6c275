package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/shopseed/shopseed/pkg/database"
)

// Config holds the application's configuration values, loaded from the
// environment with an optional .env file for local development.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	Database DatabaseConfig
	Seed     SeedConfig
}

// DatabaseConfig selects and configures the persistence engine. The sqlite
// driver is the zero-setup default; postgres preserves the same schema and
// constraints.
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	Path     string `envconfig:"DB_PATH" default:"shopseed.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName   string `envconfig:"DB_NAME" default:"shopseed"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// SeedConfig carries the generator's default entity counts and seed;
// command-line flags may override them per run.
type SeedConfig struct {
	Users    int   `envconfig:"SEED_USERS" default:"100"`
	Products int   `envconfig:"SEED_PRODUCTS" default:"200"`
	Orders   int   `envconfig:"SEED_ORDERS" default:"150"`
	Reviews  int   `envconfig:"SEED_REVIEWS" default:"300"`
	Seed     int64 `envconfig:"SEED_RANDOM_SEED" default:"1"`
}

// DatabaseSettings converts the env-level config into connection settings
func (c *Config) DatabaseSettings() database.Config {
	return database.Config{
		Driver:   c.Database.Driver,
		Path:     c.Database.Path,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.DBName,
		SSLMode:  c.Database.SSLMode,
	}
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	return &cfg, nil
}
