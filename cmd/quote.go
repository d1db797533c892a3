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

type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display the current price of stocks" }
func (*quoteCmd) Usage() string {
	return `ptrade quote <symbol>...

  Displays the current price of each symbol.
`
}

func (*quoteCmd) SetFlags(f *flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		for _, symbol := range f.Args() {
			msg, err := c.run(ctx, a.engine, symbol)
			if err != nil {
				return err
			}
			fmt.Println(msg)
		}
		return nil
	})
}

func (c *quoteCmd) run(ctx context.Context, e *papertrade.Engine, symbol string) (string, error) {
	q, err := e.Quote(ctx, symbol)
	if err != nil {
		return "", err
	}
	return renderer.Quote(q), nil
}
