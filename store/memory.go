// Package store implements papertrade.Store over gorm (SQLite or PostgreSQL)
// and in memory.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/papertrade"
)

type key struct {
	id     papertrade.AccountID
	symbol string
}

// Memory is an in-process Store.
//
// Units of work run without holding the lock; writes are buffered and
// committed only if no account they update changed meanwhile.
type Memory struct {
	mu       sync.RWMutex
	nextID   papertrade.AccountID
	accounts map[papertrade.AccountID]papertrade.Account
	byName   map[string]papertrade.AccountID
	holdings map[key]int64
	txs      map[papertrade.AccountID][]papertrade.Transaction // in append order
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[papertrade.AccountID]papertrade.Account),
		byName:   make(map[string]papertrade.AccountID),
		holdings: make(map[key]int64),
		txs:      make(map[papertrade.AccountID][]papertrade.Transaction),
	}
}

func (m *Memory) CreateAccount(_ context.Context, username, credential string, cash papertrade.Money) (papertrade.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[username]; exists {
		return papertrade.Account{}, fmt.Errorf("%w: %q", papertrade.ErrUsernameTaken, username)
	}
	m.nextID++
	a := papertrade.Account{ID: m.nextID, Username: username, Cash: cash, Credential: credential}
	m.accounts[a.ID] = a
	m.byName[username] = a.ID
	return a, nil
}

func (m *Memory) AccountByName(_ context.Context, username string) (papertrade.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[username]
	if !ok {
		return papertrade.Account{}, fmt.Errorf("%w: %q", papertrade.ErrAccountNotFound, username)
	}
	return m.accounts[id], nil
}

func (m *Memory) Account(_ context.Context, id papertrade.AccountID) (papertrade.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account(id)
}

func (m *Memory) account(id papertrade.AccountID) (papertrade.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return papertrade.Account{}, fmt.Errorf("%w: %d", papertrade.ErrAccountNotFound, id)
	}
	return a, nil
}

func (m *Memory) Holdings(_ context.Context, id papertrade.AccountID) ([]papertrade.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []papertrade.Holding
	for k, shares := range m.holdings {
		if k.id == id {
			out = append(out, papertrade.Holding{AccountID: id, Symbol: k.symbol, Shares: shares})
		}
	}
	sortHoldings(out)
	return out, nil
}

func (m *Memory) Transactions(_ context.Context, id papertrade.AccountID) ([]papertrade.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txs := m.txs[id]
	out := make([]papertrade.Transaction, len(txs))
	for i, t := range txs {
		out[len(txs)-1-i] = t
	}
	// stable: equal timestamps keep the reversed append order
	slices.SortStableFunc(out, func(a, b papertrade.Transaction) int { return b.Timestamp.Compare(a.Timestamp) })
	return out, nil
}

func (m *Memory) Atomic(ctx context.Context, fn func(papertrade.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memoryTx{
		m:        m,
		cash:     make(map[papertrade.AccountID]cashWrite),
		holdings: make(map[key]int64),
	}
	if err := fn(tx); err != nil {
		return err
	}
	return m.commit(tx)
}

func (m *Memory) commit(tx *memoryTx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, w := range tx.cash {
		if m.accounts[id].Version != w.version {
			return fmt.Errorf("%w: account %d", papertrade.ErrStoreConflict, id)
		}
	}
	for id, w := range tx.cash {
		a := m.accounts[id]
		a.Cash, a.Version = w.cash, w.version+1
		m.accounts[id] = a
	}
	for k, shares := range tx.holdings {
		if shares == 0 {
			delete(m.holdings, k)
		} else {
			m.holdings[k] = shares
		}
	}
	for _, t := range tx.appended {
		m.txs[t.AccountID] = append(m.txs[t.AccountID], t)
	}
	return nil
}

type cashWrite struct {
	version int64 // version the write is based on
	cash    papertrade.Money
}

// memoryTx reads committed state overlaid with its own pending writes.
type memoryTx struct {
	m        *Memory
	cash     map[papertrade.AccountID]cashWrite
	holdings map[key]int64 // 0 means deleted
	appended []papertrade.Transaction
}

func (t *memoryTx) Account(id papertrade.AccountID) (papertrade.Account, error) {
	t.m.mu.RLock()
	a, err := t.m.account(id)
	t.m.mu.RUnlock()
	if err != nil {
		return a, err
	}
	if w, ok := t.cash[id]; ok {
		a.Cash, a.Version = w.cash, w.version+1
	}
	return a, nil
}

func (t *memoryTx) UpdateCash(acct papertrade.Account, cash papertrade.Money) error {
	if w, ok := t.cash[acct.ID]; ok {
		if acct.Version != w.version+1 {
			return fmt.Errorf("%w: account %d", papertrade.ErrStoreConflict, acct.ID)
		}
		t.cash[acct.ID] = cashWrite{version: w.version, cash: cash}
		return nil
	}
	t.m.mu.RLock()
	current, err := t.m.account(acct.ID)
	t.m.mu.RUnlock()
	if err != nil {
		return err
	}
	if current.Version != acct.Version {
		return fmt.Errorf("%w: account %d", papertrade.ErrStoreConflict, acct.ID)
	}
	t.cash[acct.ID] = cashWrite{version: acct.Version, cash: cash}
	return nil
}

func (t *memoryTx) Holding(id papertrade.AccountID, symbol string) (papertrade.Holding, bool, error) {
	k := key{id, symbol}
	shares, pending := t.holdings[k]
	if !pending {
		t.m.mu.RLock()
		shares = t.m.holdings[k]
		t.m.mu.RUnlock()
	}
	if shares == 0 {
		return papertrade.Holding{}, false, nil
	}
	return papertrade.Holding{AccountID: id, Symbol: symbol, Shares: shares}, true, nil
}

func (t *memoryTx) UpsertHolding(h papertrade.Holding) error {
	t.holdings[key{h.AccountID, h.Symbol}] = h.Shares
	return nil
}

func (t *memoryTx) DeleteHolding(id papertrade.AccountID, symbol string) error {
	t.holdings[key{id, symbol}] = 0
	return nil
}

func (t *memoryTx) AppendTransaction(tr papertrade.Transaction) error {
	t.appended = append(t.appended, tr)
	return nil
}

func sortHoldings(hs []papertrade.Holding) {
	slices.SortFunc(hs, func(a, b papertrade.Holding) int {
		if a.Shares != b.Shares {
			if a.Shares > b.Shares {
				return -1
			}
			return 1
		}
		if a.Symbol < b.Symbol {
			return -1
		}
		if a.Symbol > b.Symbol {
			return 1
		}
		return 0
	})
}
