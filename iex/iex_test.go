package iex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/papertrade"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "secret" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/stock/aapl/quote", "/stock/AAPL/quote":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"symbol":"AAPL","companyName":"Apple Inc.","latestPrice":172.35,"latestVolume":1000}`))
		case "/stock/BAD/quote":
			w.Write([]byte(`{"symbol":"BAD","companyName":"Bad Corp."}`))
		default:
			http.Error(w, "Unknown symbol", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Lookup(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, "secret")

	q, err := c.Lookup(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if q.Symbol != "AAPL" || q.Name != "Apple Inc." {
		t.Errorf("Lookup() = %v %q, want AAPL %q", q.Symbol, q.Name, "Apple Inc.")
	}
	if want := papertrade.M(172.35, "USD"); !q.Price.Equal(want) {
		t.Errorf("Lookup() price = %s, want %s", q.Price, want)
	}
}

func TestClient_LookupErrors(t *testing.T) {
	srv := newServer(t)
	testCases := []struct {
		name     string
		token    string
		symbol   string
		notFound bool
	}{
		{name: "unknown symbol", token: "secret", symbol: "ZZZZ", notFound: true},
		{name: "missing price", token: "secret", symbol: "BAD"},
		{name: "rejected token", token: "wrong", symbol: "AAPL"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(srv.URL, tc.token).Lookup(context.Background(), tc.symbol)
			if err == nil {
				t.Fatalf("Lookup(%q) succeeded, want an error", tc.symbol)
			}
			if got := errors.Is(err, papertrade.ErrSymbolNotFound); got != tc.notFound {
				t.Errorf("Lookup(%q) error = %v, not found = %v, want %v", tc.symbol, err, got, tc.notFound)
			}
		})
	}
}

func TestClient_LookupUnreachable(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, "secret")
	srv.Close()
	_, err := c.Lookup(context.Background(), "AAPL")
	if err == nil || errors.Is(err, papertrade.ErrSymbolNotFound) {
		t.Errorf("Lookup() on a closed server error = %v, want a transport error", err)
	}
}
