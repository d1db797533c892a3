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

type historyCmd struct {
	user string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the transactions of an account" }
func (*historyCmd) Usage() string {
	return `ptrade history -u <username>

  Displays every purchase and sale of the account, most recent first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "username of the account")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

func (c *historyCmd) run(ctx context.Context, e *papertrade.Engine) (string, error) {
	acct, err := e.AccountByName(ctx, c.user)
	if err != nil {
		return "", err
	}
	txs, err := e.TransactionHistory(ctx, acct.ID)
	if err != nil {
		return "", err
	}
	return renderer.HistoryMarkdown(acct.Username, txs), nil
}
