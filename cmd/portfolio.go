package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
	"github.com/google/subcommands"
)

type portfolioCmd struct {
	user string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display holdings valued at current prices" }
func (*portfolioCmd) Usage() string {
	return `ptrade portfolio -u <username>

  Displays every holding of the account with its current price and value,
  the cash balance and the grand total.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "username of the account")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "Error: -u is required")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		md, err := c.run(ctx, a.engine)
		if err != nil {
			return err
		}
		printMarkdown(md)
		return nil
	})
}

func (c *portfolioCmd) run(ctx context.Context, e *papertrade.Engine) (string, error) {
	acct, err := e.AccountByName(ctx, c.user)
	if err != nil {
		return "", err
	}
	snap, err := e.PortfolioSnapshot(ctx, acct.ID)
	if err != nil {
		return "", err
	}
	return renderer.PortfolioMarkdown(snap), nil
}
