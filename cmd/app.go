// Package cmd implements the CLI application to trade on a paper portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/config"
	"github.com/etnz/papertrade/iex"
	"github.com/etnz/papertrade/store"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&registerCmd{}, "accounts")

	c.Register(&quoteCmd{}, "market")

	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")

	c.Register(&portfolioCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")

	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
// Empty flags fall back to the environment, see package config.

var dialect = flag.String("dialect", "", "database dialect: sqlite, postgres or memory (default $DB_DIALECT)")
var database = flag.String("db", "", "database file or connection string (default $DATABASE_URL)")
var logLevel = flag.String("log-level", "", "log level: debug, info, warn or error (default $LOG_LEVEL)")

// loadConfig reads the environment and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if *dialect != "" {
		cfg.Dialect = *dialect
	}
	if *database != "" {
		cfg.DatabaseURL = *database
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, config.SetupLogging(cfg.LogLevel)
}

// app is an opened engine and what it needs to be released.
type app struct {
	cfg    config.Config
	engine *papertrade.Engine
	close  func()
}

// openApp opens the store and the quote oracle described by the configuration.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var s papertrade.Store
	closeStore := func() {}
	switch cfg.Dialect {
	case "memory":
		log.Warnln("using an in-memory database, nothing will be saved")
		s = store.NewMemory()
	default:
		db, err := store.Open(cfg.Dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s, closeStore = db, func() { db.Close() }
	}

	oracle, err := papertrade.NewCachedOracle(iex.New(cfg.QuoteURL, cfg.APIKey), cfg.QuoteTTL)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("cannot create quote cache: %w", err)
	}

	e := papertrade.NewEngine(s, oracle)
	e.MaxAttempts = cfg.MaxAttempts
	if e.OpeningCash, err = cfg.OpeningBalance(); err != nil {
		oracle.Close()
		closeStore()
		return nil, err
	}
	return &app{
		cfg:    cfg,
		engine: e,
		close: func() {
			oracle.Close()
			closeStore()
		},
	}, nil
}

// withApp runs 'f' on an opened app, reporting failures on stderr.
func withApp(ctx context.Context, f func(context.Context, *app) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.close()
	if err := f(ctx, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, or prints it as is when
// it cannot.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.WithError(err).Debugln("cannot render markdown")
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
