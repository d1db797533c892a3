// Package papertrade provides the ledger engine of a simulated equity trading
// account: a registered user buys and sells shares at the current market price
// against a cash balance, and the engine keeps cash, holdings and the
// transaction history mutually consistent.
//
// The core functionalities include:
//   - Ledger Engine: Buy, Sell, PortfolioSnapshot and TransactionHistory
//     operating on an explicit AccountID, each trade being a single atomic unit.
//   - Invariants: cash never goes negative, a holding always has at least one
//     share, and cash only changes by the signed total of an appended
//     transaction. Every unit of work goes through a guard that enforces them.
//   - Ports: Store (durable, transactional ledger storage) and Oracle (current
//     price of a symbol). Implementations live in the store and iex packages.
//
// This package serves as the foundational logic for the `ptrade` command-line
// tool and its HTTP API.
package papertrade
