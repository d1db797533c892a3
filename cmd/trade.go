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

// order is the common part of buy and sell.
type order struct {
	user string
}

func (o *order) SetFlags(f *flag.FlagSet) {
	f.StringVar(&o.user, "u", "", "username of the account")
}

func (o *order) execute(ctx context.Context, f *flag.FlagSet, kind papertrade.Kind) subcommands.ExitStatus {
	if o.user == "" || f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: -u, a symbol and a number of shares are required")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		msg, err := o.run(ctx, a.engine, kind, f.Arg(0), f.Arg(1))
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	})
}

func (o *order) run(ctx context.Context, e *papertrade.Engine, kind papertrade.Kind, symbol, shares string) (string, error) {
	acct, err := e.AccountByName(ctx, o.user)
	if err != nil {
		return "", err
	}
	var tx papertrade.Transaction
	if kind == papertrade.Purchase {
		tx, err = e.Buy(ctx, acct.ID, symbol, shares)
	} else {
		tx, err = e.Sell(ctx, acct.ID, symbol, shares)
	}
	if err != nil {
		return "", err
	}
	return renderer.Transaction(tx), nil
}

type buyCmd struct{ order }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares at the current price" }
func (*buyCmd) Usage() string {
	return `ptrade buy -u <username> <symbol> <shares>

  Buys a whole number of shares of a stock at its current price, paid with
  the cash of the account.
`
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, papertrade.Purchase)
}

type sellCmd struct{ order }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares at the current price" }
func (*sellCmd) Usage() string {
	return `ptrade sell -u <username> <symbol> <shares>

  Sells a whole number of held shares of a stock at its current price,
  crediting the cash of the account.
`
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(ctx, f, papertrade.Sale)
}
