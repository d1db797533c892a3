package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/store"
	gin "github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func newServer(t *testing.T) (*Server, *papertrade.MapOracle) {
	t.Helper()
	oracle := papertrade.NewMapOracle().
		Set("AAPL", "Apple Inc.", papertrade.USD(50)).
		Fail("DOWN", errors.New("connection refused"))
	return New(papertrade.NewEngine(store.NewMemory(), oracle)), oracle
}

// do sends a request and decodes the JSON answer into 'out' if not nil.
func do(t *testing.T, s *Server, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: cannot decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w
}

func register(t *testing.T, s *Server, username string) string {
	t.Helper()
	var acct struct {
		ID int64 `json:"id"`
	}
	w := do(t, s, http.MethodPost, "/api/accounts", `{"username":"`+username+`","password":"pw","confirmation":"pw"}`, &acct)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", username, w.Code, w.Body)
	}
	return "/api/accounts/" + strconv.FormatInt(acct.ID, 10)
}

func TestServer_Health(t *testing.T) {
	s, _ := newServer(t)
	w := do(t, s, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestServer_TradeFlow(t *testing.T) {
	s, _ := newServer(t)
	account := register(t, s, "alice")

	var tx struct {
		Kind   string `json:"kind"`
		Symbol string `json:"symbol"`
		Shares int64  `json:"shares"`
		Total  struct {
			Amount string `json:"amount"`
		} `json:"total"`
	}
	w := do(t, s, http.MethodPost, account+"/buy", `{"symbol":"aapl","shares":10}`, &tx)
	if w.Code != http.StatusCreated {
		t.Fatalf("buy: status = %d, body = %s", w.Code, w.Body)
	}
	if tx.Kind != "Purchase" || tx.Symbol != "AAPL" || tx.Shares != 10 || tx.Total.Amount != "500.00" {
		t.Errorf("buy = %+v", tx)
	}

	w = do(t, s, http.MethodPost, account+"/sell", `{"symbol":"AAPL","shares":"4"}`, &tx)
	if w.Code != http.StatusCreated {
		t.Fatalf("sell: status = %d, body = %s", w.Code, w.Body)
	}
	if tx.Kind != "Sale" || tx.Shares != 4 || tx.Total.Amount != "200.00" {
		t.Errorf("sell = %+v", tx)
	}

	var snap struct {
		Cash      struct{ Amount string }
		Total     struct{ Amount string }
		Positions []struct {
			Symbol string
			Shares int64
		}
	}
	w = do(t, s, http.MethodGet, account+"/portfolio", "", &snap)
	if w.Code != http.StatusOK {
		t.Fatalf("portfolio: status = %d, body = %s", w.Code, w.Body)
	}
	if snap.Cash.Amount != "9700.00" || snap.Total.Amount != "10000.00" || len(snap.Positions) != 1 || snap.Positions[0].Shares != 6 {
		t.Errorf("portfolio = %+v", snap)
	}

	var history []struct{ Kind string }
	w = do(t, s, http.MethodGet, account+"/history", "", &history)
	if w.Code != http.StatusOK {
		t.Fatalf("history: status = %d, body = %s", w.Code, w.Body)
	}
	if len(history) != 2 || history[0].Kind != "Sale" || history[1].Kind != "Purchase" {
		t.Errorf("history = %+v", history)
	}
}

func TestServer_Errors(t *testing.T) {
	s, _ := newServer(t)
	account := register(t, s, "alice")

	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"fractional shares", http.MethodPost, account + "/buy", `{"symbol":"AAPL","shares":"1.5"}`, http.StatusBadRequest, "validation"},
		{"missing symbol", http.MethodPost, account + "/buy", `{"shares":1}`, http.StatusBadRequest, "validation"},
		{"malformed body", http.MethodPost, account + "/buy", `{`, http.StatusBadRequest, "validation"},
		{"bad account id", http.MethodGet, "/api/accounts/x/portfolio", "", http.StatusBadRequest, "validation"},
		{"unknown symbol", http.MethodPost, account + "/buy", `{"symbol":"ZZZZ","shares":1}`, http.StatusNotFound, "symbol_not_found"},
		{"unknown account", http.MethodGet, "/api/accounts/999/history", "", http.StatusNotFound, "account_not_found"},
		{"no holding", http.MethodPost, account + "/sell", `{"symbol":"AAPL","shares":1}`, http.StatusNotFound, "no_holding"},
		{"insufficient funds", http.MethodPost, account + "/buy", `{"symbol":"AAPL","shares":1000}`, http.StatusConflict, "insufficient_funds"},
		{"oracle down", http.MethodGet, "/api/quote/DOWN", "", http.StatusServiceUnavailable, "oracle_unavailable"},
		{"username taken", http.MethodPost, "/api/accounts", `{"username":"alice","password":"a","confirmation":"a"}`, http.StatusConflict, "username_taken"},
		{"password mismatch", http.MethodPost, "/api/accounts", `{"username":"bob","password":"a","confirmation":"b"}`, http.StatusBadRequest, "validation"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var e apiError
			w := do(t, s, tc.method, tc.path, tc.body, &e)
			if w.Code != tc.wantStatus || e.Code != tc.wantCode {
				t.Errorf("got %d %q, want %d %q (message %q)", w.Code, e.Code, tc.wantStatus, tc.wantCode, e.Message)
			}
			if e.Message == "" {
				t.Errorf("error without message")
			}
		})
	}
}

func TestServer_Quote(t *testing.T) {
	s, _ := newServer(t)
	var q struct {
		Symbol string
		Name   string
		Price  struct{ Amount string }
	}
	w := do(t, s, http.MethodGet, "/api/quote/aapl", "", &q)
	if w.Code != http.StatusOK || q.Symbol != "AAPL" || q.Name != "Apple Inc." || q.Price.Amount != "50.00" {
		t.Errorf("quote = %d %+v", w.Code, q)
	}
}
