// Package config loads service settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the ledger service.
type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	CurrencySymbol  string        `mapstructure:"CURRENCY_SYMBOL"`
	MaxAmount       string        `mapstructure:"MAX_AMOUNT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// LoadConfig reads configuration from environment variables and .env.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CURRENCY_SYMBOL", "₹")
	v.SetDefault("MAX_AMOUNT", "10000000000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Environment variables alone are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	if strings.TrimSpace(c.CurrencySymbol) == "" {
		return fmt.Errorf("CURRENCY_SYMBOL must not be empty")
	}
	if _, err := c.MaxAmountDecimal(); err != nil {
		return err
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// MaxAmountDecimal parses MAX_AMOUNT.
func (c *Config) MaxAmountDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.MaxAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("MAX_AMOUNT %q is not a number: %w", c.MaxAmount, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("MAX_AMOUNT must be positive, got %s", c.MaxAmount)
	}
	return d, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsTest reports whether the server should bind an ephemeral port and stay quiet.
func (c *Config) IsTest() bool {
	return c.ServerPort == "0"
}
