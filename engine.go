package papertrade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultMaxAttempts is the number of times a trade is attempted when the
// Store reports concurrent updates of the account.
const DefaultMaxAttempts = 5

// Engine executes trades and reports on accounts.
//
// An Engine is safe for concurrent use; serializability per account is
// provided by the Store.
type Engine struct {
	store  Store
	oracle Oracle

	OpeningCash Money            // cash of newly registered accounts
	MaxAttempts int              // attempts of a trade on ErrStoreConflict
	Now         func() time.Time // clock of the transaction timestamps
}

// NewEngine returns an engine over 'store' pricing trades with 'oracle'.
func NewEngine(store Store, oracle Oracle) *Engine {
	return &Engine{
		store:       store,
		oracle:      oracle,
		OpeningCash: USD(10000),
		MaxAttempts: DefaultMaxAttempts,
		Now:         time.Now,
	}
}

// Register creates an account with the opening cash.
func (e *Engine) Register(ctx context.Context, username, password, confirmation string) (Account, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return Account{}, invalid("username", "must provide username")
	case password == "":
		return Account{}, invalid("password", "must provide password")
	case confirmation == "":
		return Account{}, invalid("confirmation", "must confirm password")
	case password != confirmation:
		return Account{}, invalid("confirmation", "passwords do not match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("cannot hash password: %w", err)
	}
	acct, err := e.store.CreateAccount(ctx, username, string(hash), e.OpeningCash)
	if err != nil {
		return Account{}, fmt.Errorf("cannot register %q: %w", username, err)
	}
	log.WithFields(log.Fields{
		"account":  acct.ID,
		"username": acct.Username,
		"cash":     acct.Cash.String(),
	}).Infoln("account registered")
	return acct, nil
}

// Account returns the account 'id'.
func (e *Engine) Account(ctx context.Context, id AccountID) (Account, error) {
	return e.store.Account(ctx, id)
}

// AccountByName returns the account registered as 'username'.
func (e *Engine) AccountByName(ctx context.Context, username string) (Account, error) {
	return e.store.AccountByName(ctx, strings.TrimSpace(username))
}

// Quote returns the current price of 'symbol'.
func (e *Engine) Quote(ctx context.Context, symbol string) (Quote, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return Quote{}, err
	}
	return e.lookup(ctx, sym)
}

// lookup queries the oracle, sorting out not found from unavailable.
func (e *Engine) lookup(ctx context.Context, symbol string) (Quote, error) {
	q, err := e.oracle.Lookup(ctx, symbol)
	switch {
	case errors.Is(err, ErrSymbolNotFound):
		return Quote{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	case err != nil:
		return Quote{}, fmt.Errorf("%w: looking up %s: %w", ErrOracleUnavailable, symbol, err)
	case !q.Price.IsPositive():
		return Quote{}, fmt.Errorf("%w: %s has no price", ErrSymbolNotFound, symbol)
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	q.Symbol = strings.ToUpper(q.Symbol)
	return q, nil
}

// atomic runs fn in a guarded unit of work, retrying on ErrStoreConflict.
func (e *Engine) atomic(ctx context.Context, fn func(LedgerTx) error) error {
	attempts := max(e.MaxAttempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = e.store.Atomic(ctx, func(tx LedgerTx) error {
			g := guard(tx)
			if err := fn(g); err != nil {
				return err
			}
			return g.verify()
		})
		if !errors.Is(err, ErrStoreConflict) {
			return err
		}
		if ctx.Err() != nil {
			return errors.Join(err, ctx.Err())
		}
		log.WithFields(log.Fields{"attempt": attempt}).WithError(err).Debugln("retrying unit of work")
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}

func (e *Engine) now() time.Time {
	return e.Now().UTC()
}
