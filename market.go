package papertrade

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Quote is the current market price of a symbol.
type Quote struct {
	Symbol string // canonical symbol, as known by the oracle
	Name   string // company name
	Price  Money
}

func (q Quote) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", q.Symbol)
	w.Append("name", q.Name)
	w.Append("price", q.Price)
	return w.MarshalJSON()
}

// Oracle returns the current price of a symbol.
//
// Lookup returns an error matching ErrSymbolNotFound for unknown symbols; any
// other error means the oracle could not answer.
type Oracle interface {
	Lookup(ctx context.Context, symbol string) (Quote, error)
}

// CachedOracle keeps successful quotes of an Oracle for a fixed time.
type CachedOracle struct {
	oracle Oracle
	cache  *ristretto.Cache
	ttl    time.Duration
}

// NewCachedOracle caches the quotes of 'oracle' for 'ttl'.
func NewCachedOracle(oracle Oracle, ttl time.Duration) (*CachedOracle, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 12, // one unit per quote
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedOracle{oracle: oracle, cache: c, ttl: ttl}, nil
}

func (c *CachedOracle) Lookup(ctx context.Context, symbol string) (Quote, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if v, ok := c.cache.Get(key); ok {
		return v.(Quote), nil
	}
	q, err := c.oracle.Lookup(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}
	c.cache.SetWithTTL(key, q, 1, c.ttl)
	return q, nil
}

// Wait blocks until pending cache writes are visible.
func (c *CachedOracle) Wait() { c.cache.Wait() }

func (c *CachedOracle) Close() { c.cache.Close() }
