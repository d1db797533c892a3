package papertrade

import (
	"errors"
	"fmt"
)

// Rejections. A request failing with one of them left the ledger untouched.
var (
	ErrValidation         = errors.New("invalid request")
	ErrSymbolNotFound     = errors.New("symbol not found")
	ErrInsufficientFunds  = errors.New("not enough cash")
	ErrInsufficientShares = errors.New("not enough shares")
	ErrNoHolding          = errors.New("no shares held")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username already exists")

	// ErrStoreConflict is returned by a Store when a concurrent unit of work
	// changed the account first. The engine retries on it.
	ErrStoreConflict = errors.New("concurrent update of the account")

	// ErrOracleUnavailable wraps any oracle failure other than ErrSymbolNotFound.
	ErrOracleUnavailable = errors.New("price oracle unavailable")

	// ErrInvariant means a unit of work tried to commit a ledger state that
	// breaks the ledger invariants. It is always a bug.
	ErrInvariant = errors.New("ledger invariant violated")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// Kind returns a stable name for the kind of 'err', for presentation layers.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrSymbolNotFound):
		return "symbol_not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, ErrNoHolding):
		return "no_holding"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrStoreConflict):
		return "store_conflict"
	case errors.Is(err, ErrOracleUnavailable):
		return "oracle_unavailable"
	default:
		return "internal"
	}
}
