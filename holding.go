package papertrade

// AccountID identifies an account in the Store.
type AccountID int64

// Account is a registered user and their cash balance.
type Account struct {
	ID         AccountID
	Username   string
	Cash       Money
	Credential string // password hash, never verified by the engine

	// Version is bumped by the Store on every cash update. UpdateCash only
	// succeeds against the version that was read.
	Version int64
}

// Holding is the number of shares of one symbol owned by an account.
// A stored holding always has at least one share.
type Holding struct {
	AccountID AccountID
	Symbol    string
	Shares    int64
}

// Position is a holding valued at the current market price.
//
// When the price could not be resolved, Err is set and Price and Value are zero.
type Position struct {
	Symbol string
	Name   string
	Shares int64
	Price  Money
	Value  Money
	Err    error
}

func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", p.Symbol)
	w.Optional("name", p.Name)
	w.Append("shares", p.Shares)
	if p.Err != nil {
		w.Append("error", p.Err.Error())
		return w.MarshalJSON()
	}
	w.Append("price", p.Price)
	w.Append("value", p.Value)
	return w.MarshalJSON()
}

// Snapshot is the valued portfolio of an account.
type Snapshot struct {
	AccountID AccountID
	Username  string
	Cash      Money
	Positions []Position
	Total     Money // cash plus the value of every priced position
}

// Degraded reports whether some positions could not be priced, in which case
// Total underestimates the portfolio.
func (s Snapshot) Degraded() bool {
	for _, p := range s.Positions {
		if p.Err != nil {
			return true
		}
	}
	return false
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", s.AccountID)
	w.Append("username", s.Username)
	w.Append("cash", s.Cash)
	positions := s.Positions
	if positions == nil {
		positions = []Position{}
	}
	w.Append("positions", positions)
	w.Append("total", s.Total)
	w.Optional("degraded", s.Degraded())
	return w.MarshalJSON()
}
