// Package config reads the papertrade settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/etnz/papertrade"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	APIKey      string        `env:"API_KEY,notEmpty"`
	QuoteURL    string        `env:"QUOTE_URL" envDefault:"https://cloud.iexapis.com/stable"`
	Dialect     string        `env:"DB_DIALECT" envDefault:"sqlite"`
	DatabaseURL string        `env:"DATABASE_URL" envDefault:"papertrade.db"`
	OpeningCash string        `env:"OPENING_CASH" envDefault:"10000.00"`
	QuoteTTL    time.Duration `env:"QUOTE_TTL" envDefault:"15s"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	Port        string        `env:"PORT" envDefault:"8080"`
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Dialect {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("DB_DIALECT: unsupported dialect %q, use sqlite, postgres or memory", c.Dialect)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("MAX_ATTEMPTS: must be at least 1, got %d", c.MaxAttempts)
	}
	if c.QuoteTTL < 0 {
		return fmt.Errorf("QUOTE_TTL: must not be negative, got %s", c.QuoteTTL)
	}
	if _, err := c.OpeningBalance(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// OpeningBalance is the cash of newly registered accounts.
func (c Config) OpeningBalance() (papertrade.Money, error) {
	m, err := papertrade.ParseMoney(c.OpeningCash, papertrade.DefaultCurrency)
	if err != nil {
		return m, fmt.Errorf("OPENING_CASH: %w", err)
	}
	if m.IsNegative() {
		return m, fmt.Errorf("OPENING_CASH: must not be negative, got %s", c.OpeningCash)
	}
	return m, nil
}

// SetupLogging configures the standard logrus logger. Logs go to stderr so
// that command output stays clean.
func SetupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		ForceQuote:      true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stderr)
	return nil
}
