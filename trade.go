package papertrade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Buy purchases 'shares' of 'symbol' at the current price for account 'id'.
//
// The cost is debited from cash, the holding is created or increased and a
// Purchase is recorded, all at once. It fails with ErrInsufficientFunds when
// the cash does not cover the cost.
func (e *Engine) Buy(ctx context.Context, id AccountID, symbol, shares string) (Transaction, error) {
	sym, n, err := parseOrder(symbol, shares)
	if err != nil {
		return Transaction{}, err
	}
	q, err := e.lookup(ctx, sym)
	if err != nil {
		return Transaction{}, err
	}
	cost := q.Price.Mul(n)

	var rec Transaction
	err = e.atomic(ctx, func(tx LedgerTx) error {
		acct, err := tx.Account(id)
		if err != nil {
			return err
		}
		if acct.Cash.LessThan(cost) {
			return fmt.Errorf("%w: %d %s cost %s, cash balance is %s", ErrInsufficientFunds, n, q.Symbol, cost, acct.Cash)
		}
		h, _, err := tx.Holding(id, q.Symbol)
		if err != nil {
			return err
		}
		if err := tx.UpdateCash(acct, acct.Cash.Sub(cost)); err != nil {
			return err
		}
		if err := tx.UpsertHolding(Holding{AccountID: id, Symbol: q.Symbol, Shares: h.Shares + n}); err != nil {
			return err
		}
		rec = e.record(id, Purchase, q, n)
		return tx.AppendTransaction(rec)
	})
	if err != nil {
		log.WithFields(log.Fields{"account": id, "symbol": sym, "shares": n}).WithError(err).Debugln("buy rejected")
		return Transaction{}, err
	}
	logTrade(rec)
	return rec, nil
}

// Sell sells 'shares' of 'symbol' at the current price for account 'id'.
//
// The proceeds are credited to cash, the holding is decreased, or deleted when
// no share is left, and a Sale is recorded, all at once. It fails with
// ErrNoHolding or ErrInsufficientShares when the account does not own enough.
func (e *Engine) Sell(ctx context.Context, id AccountID, symbol, shares string) (Transaction, error) {
	sym, n, err := parseOrder(symbol, shares)
	if err != nil {
		return Transaction{}, err
	}
	q, err := e.lookup(ctx, sym)
	if err != nil {
		return Transaction{}, err
	}
	proceeds := q.Price.Mul(n)

	var rec Transaction
	err = e.atomic(ctx, func(tx LedgerTx) error {
		acct, err := tx.Account(id)
		if err != nil {
			return err
		}
		h, ok, err := tx.Holding(id, q.Symbol)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoHolding, q.Symbol)
		}
		if n > h.Shares {
			return fmt.Errorf("%w: selling %d %s, holding %d", ErrInsufficientShares, n, q.Symbol, h.Shares)
		}
		if err := tx.UpdateCash(acct, acct.Cash.Add(proceeds)); err != nil {
			return err
		}
		if left := h.Shares - n; left == 0 {
			err = tx.DeleteHolding(id, q.Symbol)
		} else {
			err = tx.UpsertHolding(Holding{AccountID: id, Symbol: q.Symbol, Shares: left})
		}
		if err != nil {
			return err
		}
		rec = e.record(id, Sale, q, n)
		return tx.AppendTransaction(rec)
	})
	if err != nil {
		log.WithFields(log.Fields{"account": id, "symbol": sym, "shares": n}).WithError(err).Debugln("sell rejected")
		return Transaction{}, err
	}
	logTrade(rec)
	return rec, nil
}

func (e *Engine) record(id AccountID, kind Kind, q Quote, shares int64) Transaction {
	return Transaction{
		ID:        uuid.New(),
		AccountID: id,
		Symbol:    q.Symbol,
		Shares:    shares,
		Price:     q.Price,
		Total:     q.Price.Mul(shares),
		Kind:      kind,
		Timestamp: e.now(),
	}
}

func logTrade(t Transaction) {
	log.WithFields(log.Fields{
		"account": t.AccountID,
		"kind":    t.Kind,
		"symbol":  t.Symbol,
		"shares":  t.Shares,
		"price":   t.Price.String(),
		"total":   t.Total.String(),
	}).Infoln("trade committed")
}
