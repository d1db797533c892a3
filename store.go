package papertrade

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Store is the durable storage of accounts, holdings and transactions.
//
// Reads outside of Atomic see committed state only.
type Store interface {
	// CreateAccount fails with ErrUsernameTaken if the username exists.
	CreateAccount(ctx context.Context, username, credential string, cash Money) (Account, error)
	AccountByName(ctx context.Context, username string) (Account, error)
	Account(ctx context.Context, id AccountID) (Account, error)
	// Holdings are ordered by shares descending, then symbol.
	Holdings(ctx context.Context, id AccountID) ([]Holding, error)
	// Transactions are ordered by timestamp descending, most recent append first.
	Transactions(ctx context.Context, id AccountID) ([]Transaction, error)

	// Atomic runs fn as a single unit of work: every write made through the
	// LedgerTx is committed if fn returns nil, none otherwise.
	Atomic(ctx context.Context, fn func(LedgerTx) error) error
}

// LedgerTx is the read-modify-write view of the Store inside a unit of work.
type LedgerTx interface {
	// Account fails with ErrAccountNotFound.
	Account(id AccountID) (Account, error)
	// UpdateCash sets the cash of 'acct' if its stored version is still
	// acct.Version, and fails with ErrStoreConflict otherwise.
	UpdateCash(acct Account, cash Money) error
	Holding(id AccountID, symbol string) (Holding, bool, error)
	UpsertHolding(h Holding) error
	DeleteHolding(id AccountID, symbol string) error
	AppendTransaction(t Transaction) error
}

// guardedTx enforces the ledger invariants on the writes of a unit of work:
// cash never goes negative, holdings keep at least one share, and at the end
// of the unit every account's cash moved by exactly the signed total of the
// transactions appended to it.
type guardedTx struct {
	LedgerTx
	cash     map[AccountID]decimal.Decimal // cash delta written
	appended map[AccountID]decimal.Decimal // signed totals appended
}

func guard(tx LedgerTx) *guardedTx {
	return &guardedTx{
		LedgerTx: tx,
		cash:     make(map[AccountID]decimal.Decimal),
		appended: make(map[AccountID]decimal.Decimal),
	}
}

func (g *guardedTx) UpdateCash(acct Account, cash Money) error {
	if cash.IsNegative() {
		return fmt.Errorf("%w: cash of account %d would be %s", ErrInvariant, acct.ID, cash)
	}
	if err := g.LedgerTx.UpdateCash(acct, cash); err != nil {
		return err
	}
	g.cash[acct.ID] = g.cash[acct.ID].Add(cash.Sub(acct.Cash).Decimal())
	return nil
}

func (g *guardedTx) UpsertHolding(h Holding) error {
	if h.Shares < 1 {
		return fmt.Errorf("%w: holding %s of account %d would have %d shares", ErrInvariant, h.Symbol, h.AccountID, h.Shares)
	}
	if h.Symbol == "" {
		return fmt.Errorf("%w: holding without symbol", ErrInvariant)
	}
	return g.LedgerTx.UpsertHolding(h)
}

func (g *guardedTx) AppendTransaction(t Transaction) error {
	if err := t.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	if err := g.LedgerTx.AppendTransaction(t); err != nil {
		return err
	}
	g.appended[t.AccountID] = g.appended[t.AccountID].Add(t.CashDelta().Decimal())
	return nil
}

// verify checks the cash of every touched account moved by the total of its
// appended transactions.
func (g *guardedTx) verify() error {
	for id, delta := range g.cash {
		if !delta.Equal(g.appended[id]) {
			return fmt.Errorf("%w: cash of account %d moved by %s, transactions account for %s", ErrInvariant, id, delta, g.appended[id])
		}
	}
	for id, total := range g.appended {
		if _, ok := g.cash[id]; !ok && !total.IsZero() {
			return fmt.Errorf("%w: transactions of account %d account for %s without cash update", ErrInvariant, id, total)
		}
	}
	return nil
}
