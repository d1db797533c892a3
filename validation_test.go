package papertrade

import (
	"errors"
	"testing"
)

func TestParseShares(t *testing.T) {
	testCases := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "10", want: 10},
		{input: " 3 ", want: 3},
		{input: "10.0", want: 10},
		{input: "1e2", want: 100},
		{input: "1.5", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-2", wantErr: true},
		{input: "", wantErr: true},
		{input: "ten", wantErr: true},
		{input: "99999999999999999999999", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseShares(tc.input)
		if tc.wantErr {
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "shares" {
				t.Errorf("ParseShares(%q) error = %v, want a ValidationError on shares", tc.input, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseShares(%q) = %d, %v, want %d", tc.input, got, err, tc.want)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got, err := NormalizeSymbol(" aapl "); err != nil || got != "AAPL" {
		t.Errorf("NormalizeSymbol(aapl) = %q, %v", got, err)
	}
	_, err := NormalizeSymbol("  ")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("NormalizeSymbol(blank) error = %v, want ErrValidation", err)
	}
	if err.Error() != "symbol: must specify stock symbol" {
		t.Errorf("NormalizeSymbol(blank) error = %q", err)
	}
}

func TestKind(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{invalid("shares", "must be positive"), "validation"},
		{ErrSymbolNotFound, "symbol_not_found"},
		{ErrInsufficientFunds, "insufficient_funds"},
		{ErrInsufficientShares, "insufficient_shares"},
		{ErrNoHolding, "no_holding"},
		{ErrAccountNotFound, "account_not_found"},
		{ErrUsernameTaken, "username_taken"},
		{ErrStoreConflict, "store_conflict"},
		{ErrOracleUnavailable, "oracle_unavailable"},
		{ErrInvariant, "internal"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range testCases {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
