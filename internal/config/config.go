// Package config loads the service settings from the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	JWTSecret      string
	// RabbitMQURL is the broker address. Empty disables product events.
	RabbitMQURL string

	PageSize                int
	ResetPageOnFilterChange bool
	CloseDialogOnUpdate     bool
	NotifyCreateFailure     bool
	SeedDemoData            bool

	WriteRatePerSecond float64
	WriteBurst         int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:inventory.db?cache=shared")
	v.SetDefault("JWT_SECRET", "change_me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("PAGE_SIZE", 8)
	v.SetDefault("RESET_PAGE_ON_FILTER_CHANGE", true)
	v.SetDefault("CLOSE_DIALOG_ON_UPDATE", false)
	v.SetDefault("NOTIFY_CREATE_FAILURE", true)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("WRITE_RATE_PER_SECOND", 10.0)
	v.SetDefault("WRITE_BURST", 20)
}

// Load reads the configuration from v after applying defaults and binding the
// environment.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:                 v.GetString("APP_PORT"),
		DatabaseDriver:          v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:             v.GetString("DATABASE_DSN"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		RabbitMQURL:             v.GetString("RABBITMQ_URL"),
		PageSize:                v.GetInt("PAGE_SIZE"),
		ResetPageOnFilterChange: v.GetBool("RESET_PAGE_ON_FILTER_CHANGE"),
		CloseDialogOnUpdate:     v.GetBool("CLOSE_DIALOG_ON_UPDATE"),
		NotifyCreateFailure:     v.GetBool("NOTIFY_CREATE_FAILURE"),
		SeedDemoData:            v.GetBool("SEED_DEMO_DATA"),
		WriteRatePerSecond:      v.GetFloat64("WRITE_RATE_PER_SECOND"),
		WriteBurst:              v.GetInt("WRITE_BURST"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.WriteRatePerSecond <= 0 || c.WriteBurst <= 0 {
		return fmt.Errorf("WRITE_RATE_PER_SECOND and WRITE_BURST must be positive")
	}
	return nil
}
