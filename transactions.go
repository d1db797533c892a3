package papertrade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind of a completed trade.
type Kind string

const (
	Purchase Kind = "Purchase"
	Sale     Kind = "Sale"
)

// Transaction is the immutable record of one completed Buy or Sell.
type Transaction struct {
	ID        uuid.UUID
	AccountID AccountID
	Symbol    string
	Shares    int64
	Price     Money // per share
	Total     Money // Price * Shares
	Kind      Kind
	Timestamp time.Time
}

// CashDelta returns the signed change of cash caused by t.
func (t Transaction) CashDelta() Money {
	if t.Kind == Purchase {
		return t.Total.Neg()
	}
	return t.Total
}

// validate checks the record is self-consistent.
func (t Transaction) validate() error {
	switch {
	case t.Kind != Purchase && t.Kind != Sale:
		return fmt.Errorf("unknown transaction kind %q", t.Kind)
	case t.Symbol == "":
		return fmt.Errorf("transaction without symbol")
	case t.Shares < 1:
		return fmt.Errorf("transaction of %d shares", t.Shares)
	case !t.Price.IsPositive():
		return fmt.Errorf("transaction price %s is not positive", t.Price)
	case !t.Price.Mul(t.Shares).Equal(t.Total):
		return fmt.Errorf("transaction total %s is not %d x %s", t.Total, t.Shares, t.Price)
	}
	return nil
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("account", t.AccountID)
	w.Append("kind", t.Kind)
	w.Append("symbol", t.Symbol)
	w.Append("shares", t.Shares)
	w.Append("price", t.Price)
	w.Append("total", t.Total)
	w.Append("timestamp", t.Timestamp)
	return w.MarshalJSON()
}
