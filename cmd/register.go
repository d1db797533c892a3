package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/papertrade"
	"github.com/google/subcommands"
)

type registerCmd struct {
	user         string
	password     string
	confirmation string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "open an account with the opening cash" }
func (*registerCmd) Usage() string {
	return `ptrade register -u <username> -p <password> -c <password>

  Opens an account credited with the opening cash ($OPENING_CASH).
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "username of the new account")
	f.StringVar(&c.password, "p", "", "password")
	f.StringVar(&c.confirmation, "c", "", "password again, for confirmation")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "Error: -u is required")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		msg, err := c.run(ctx, a.engine)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	})
}

func (c *registerCmd) run(ctx context.Context, e *papertrade.Engine) (string, error) {
	acct, err := e.Register(ctx, c.user, c.password, c.confirmation)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Registered %s with %s.", acct.Username, acct.Cash), nil
}
