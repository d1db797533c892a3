// Package server exposes a papertrade.Engine as a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/etnz/papertrade"
	gin "github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	R      *gin.Engine
	Engine *papertrade.Engine
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

type orderRequest struct {
	Symbol string     `json:"symbol"`
	Shares shareCount `json:"shares"`
}

// shareCount is the raw share count of an order, given as a JSON string or
// number. It is validated by the engine.
type shareCount string

func (s *shareCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = shareCount(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = shareCount(n)
	return nil
}

type accountResponse struct {
	ID       papertrade.AccountID `json:"id"`
	Username string               `json:"username"`
	Cash     papertrade.Money     `json:"cash"`
}

// New wires the router and middleware around 'engine'.
func New(engine *papertrade.Engine) *Server {
	g := gin.New()
	g.Use(logRequests, gin.Recovery(), noCache)

	s := &Server{R: g, Engine: engine}

	g.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	api := g.Group("/api")
	api.POST("/accounts", s.register)
	api.GET("/quote/:symbol", s.quote)
	api.POST("/accounts/:id/buy", s.buy)
	api.POST("/accounts/:id/sell", s.sell)
	api.GET("/accounts/:id/portfolio", s.portfolio)
	api.GET("/accounts/:id/history", s.history)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.R.ServeHTTP(w, r) }

func logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	log.WithFields(log.Fields{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"ip":      c.ClientIP(),
		"latency": time.Since(start),
	}).Infoln("http request")
}

// noCache keeps clients from caching balances and prices.
func noCache(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Expires", "0")
	h.Set("Pragma", "no-cache")
	c.Next()
}

// --- Helpers ---

// status maps an engine error to its HTTP status.
func status(err error) int {
	switch {
	case errors.Is(err, papertrade.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, papertrade.ErrSymbolNotFound),
		errors.Is(err, papertrade.ErrAccountNotFound),
		errors.Is(err, papertrade.ErrNoHolding):
		return http.StatusNotFound
	case errors.Is(err, papertrade.ErrInsufficientFunds),
		errors.Is(err, papertrade.ErrInsufficientShares),
		errors.Is(err, papertrade.ErrUsernameTaken),
		errors.Is(err, papertrade.ErrStoreConflict):
		return http.StatusConflict
	case errors.Is(err, papertrade.ErrOracleUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, where string, err error) {
	code := status(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.WithField("where", where).WithError(err).Errorln("internal error")
		msg = "internal server error"
	}
	c.JSON(code, apiError{Code: papertrade.Kind(err), Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "validation", Message: msg})
}

func accountID(c *gin.Context) (papertrade.AccountID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "invalid account id "+strconv.Quote(c.Param("id")))
		return 0, false
	}
	return papertrade.AccountID(id), true
}

// --- Handlers ---

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	acct, err := s.Engine.Register(c.Request.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		fail(c, "Register", err)
		return
	}
	c.JSON(http.StatusCreated, accountResponse{ID: acct.ID, Username: acct.Username, Cash: acct.Cash})
}

func (s *Server) quote(c *gin.Context) {
	q, err := s.Engine.Quote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		fail(c, "Quote", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) buy(c *gin.Context) { s.trade(c, "Buy", s.Engine.Buy) }

func (s *Server) sell(c *gin.Context) { s.trade(c, "Sell", s.Engine.Sell) }

func (s *Server) trade(c *gin.Context, where string, op func(ctx context.Context, id papertrade.AccountID, symbol, shares string) (papertrade.Transaction, error)) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	tx, err := op(c.Request.Context(), id, req.Symbol, string(req.Shares))
	if err != nil {
		fail(c, where, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (s *Server) portfolio(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	snap, err := s.Engine.PortfolioSnapshot(c.Request.Context(), id)
	if err != nil {
		fail(c, "PortfolioSnapshot", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) history(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	txs, err := s.Engine.TransactionHistory(c.Request.Context(), id)
	if err != nil {
		fail(c, "TransactionHistory", err)
		return
	}
	if txs == nil {
		txs = []papertrade.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}
