package renderer

import (
	"fmt"

	"github.com/etnz/papertrade"
)

// Transaction renders a transaction to a string.
func Transaction(t papertrade.Transaction) string {
	return fmt.Sprintf("%s %s of %s for %s", verb(t.Kind), shares(t.Shares), t.Symbol, t.Total)
}

// Quote renders a quote to a string.
func Quote(q papertrade.Quote) string {
	if q.Name == "" {
		return fmt.Sprintf("A share of %s costs %s.", q.Symbol, q.Price)
	}
	return fmt.Sprintf("A share of %s (%s) costs %s.", q.Name, q.Symbol, q.Price)
}

func shares(n int64) string {
	if n == 1 {
		return "1 share"
	}
	return fmt.Sprintf("%d shares", n)
}
