package papertrade

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// PortfolioSnapshot values every holding of account 'id' at its current price.
//
// A holding whose price cannot be resolved does not fail the snapshot: its
// Position carries the error and is left out of the total.
func (e *Engine) PortfolioSnapshot(ctx context.Context, id AccountID) (Snapshot, error) {
	acct, err := e.store.Account(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	holdings, err := e.store.Holdings(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}

	s := Snapshot{
		AccountID: acct.ID,
		Username:  acct.Username,
		Cash:      acct.Cash,
		Positions: make([]Position, 0, len(holdings)),
		Total:     acct.Cash,
	}
	for _, h := range holdings {
		p := Position{Symbol: h.Symbol, Shares: h.Shares}
		q, err := e.lookup(ctx, h.Symbol)
		if err != nil {
			log.WithFields(log.Fields{"account": id, "symbol": h.Symbol}).WithError(err).Warnln("cannot price holding")
			p.Err = err
			s.Positions = append(s.Positions, p)
			continue
		}
		p.Name = q.Name
		p.Price = q.Price
		p.Value = q.Price.Mul(h.Shares)
		s.Total = s.Total.Add(p.Value)
		s.Positions = append(s.Positions, p)
	}
	return s, nil
}

// TransactionHistory returns every transaction of account 'id', most recent first.
func (e *Engine) TransactionHistory(ctx context.Context, id AccountID) ([]Transaction, error) {
	if _, err := e.store.Account(ctx, id); err != nil {
		return nil, err
	}
	return e.store.Transactions(ctx, id)
}
