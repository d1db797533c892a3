package papertrade

import (
	"context"
	"strings"
	"sync"
)

// MapOracle is an in-memory Oracle with prices set by hand. It serves tests
// and offline demos.
type MapOracle struct {
	mu     sync.RWMutex
	quotes map[string]Quote
	errs   map[string]error
	calls  int
}

func NewMapOracle() *MapOracle {
	return &MapOracle{quotes: make(map[string]Quote), errs: make(map[string]error)}
}

// Set quotes 'symbol' at 'price'.
func (o *MapOracle) Set(symbol, name string, price Money) *MapOracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	symbol = strings.ToUpper(symbol)
	o.quotes[symbol] = Quote{Symbol: symbol, Name: name, Price: price}
	delete(o.errs, symbol)
	return o
}

// Fail makes lookups of 'symbol' return 'err'.
func (o *MapOracle) Fail(symbol string, err error) *MapOracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs[strings.ToUpper(symbol)] = err
	return o
}

// Calls returns the number of lookups so far.
func (o *MapOracle) Calls() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.calls
}

func (o *MapOracle) Lookup(_ context.Context, symbol string) (Quote, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err, ok := o.errs[symbol]; ok {
		return Quote{}, err
	}
	q, ok := o.quotes[symbol]
	if !ok {
		return Quote{}, ErrSymbolNotFound
	}
	return q, nil
}
