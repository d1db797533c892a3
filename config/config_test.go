package config

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/papertrade"
	log "github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Dialect != "sqlite" || cfg.MaxAttempts != 5 || cfg.QuoteTTL != 15*time.Second || cfg.Port != "8080" {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	cash, err := cfg.OpeningBalance()
	if err != nil {
		t.Fatalf("OpeningBalance() failed: %v", err)
	}
	if !cash.Equal(papertrade.USD(10000)) {
		t.Errorf("OpeningBalance() = %s, want $10,000.00", cash)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("DB_DIALECT", "postgres")
	t.Setenv("DATABASE_URL", "host=localhost dbname=finance")
	t.Setenv("OPENING_CASH", "2500.50")
	t.Setenv("QUOTE_TTL", "1m")
	t.Setenv("MAX_ATTEMPTS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Dialect != "postgres" || cfg.DatabaseURL != "host=localhost dbname=finance" || cfg.QuoteTTL != time.Minute || cfg.MaxAttempts != 3 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cash, _ := cfg.OpeningBalance(); !cash.Equal(papertrade.USD(2500.5)) {
		t.Errorf("OpeningBalance() = %s, want $2,500.50", cash)
	}
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing api key", env: map[string]string{}, wantErr: "API_KEY"},
		{name: "unknown dialect", env: map[string]string{"API_KEY": "k", "DB_DIALECT": "mysql"}, wantErr: "DB_DIALECT"},
		{name: "no attempt", env: map[string]string{"API_KEY": "k", "MAX_ATTEMPTS": "0"}, wantErr: "MAX_ATTEMPTS"},
		{name: "negative cash", env: map[string]string{"API_KEY": "k", "OPENING_CASH": "-1"}, wantErr: "OPENING_CASH"},
		{name: "invalid cash", env: map[string]string{"API_KEY": "k", "OPENING_CASH": "lots"}, wantErr: "OPENING_CASH"},
		{name: "invalid level", env: map[string]string{"API_KEY": "k", "LOG_LEVEL": "loud"}, wantErr: "LOG_LEVEL"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("API_KEY", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Load() error = %v, want one about %s", err, tc.wantErr)
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	if err := SetupLogging("debug"); err != nil {
		t.Fatalf("SetupLogging() failed: %v", err)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
	if err := SetupLogging("loud"); err == nil {
		t.Errorf("SetupLogging(loud) succeeded, want an error")
	}
}
