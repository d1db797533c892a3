package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/papertrade"
	"github.com/google/uuid"
	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRow struct {
	ID        int64           `gorm:"primaryKey"`
	Username  string          `gorm:"uniqueIndex;not null"`
	Hash      string          `gorm:"not null"`
	Cash      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency  string          `gorm:"size:3;not null"`
	Version   int64           `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (accountRow) TableName() string { return "users" }

func (r accountRow) account() papertrade.Account {
	return papertrade.Account{
		ID:         papertrade.AccountID(r.ID),
		Username:   r.Username,
		Cash:       papertrade.M(r.Cash, r.Currency),
		Credential: r.Hash,
		Version:    r.Version,
	}
}

type holdingRow struct {
	AccountID int64  `gorm:"primaryKey;autoIncrement:false"`
	Symbol    string `gorm:"primaryKey;size:16"`
	Shares    int64  `gorm:"not null"`
}

func (holdingRow) TableName() string { return "stocks" }

type transactionRow struct {
	Seq        int64           `gorm:"primaryKey;autoIncrement"`
	UUID       string          `gorm:"uniqueIndex;size:36;not null"`
	AccountID  int64           `gorm:"index;not null"`
	Symbol     string          `gorm:"size:16;not null"`
	Shares     int64           `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency   string          `gorm:"size:3;not null"`
	Kind       string          `gorm:"size:16;not null"`
	ExecutedAt time.Time       `gorm:"index;not null"`
}

func (transactionRow) TableName() string { return "history" }

func (r transactionRow) transaction() (papertrade.Transaction, error) {
	id, err := uuid.Parse(r.UUID)
	if err != nil {
		return papertrade.Transaction{}, fmt.Errorf("transaction %d: %w", r.Seq, err)
	}
	return papertrade.Transaction{
		ID:        id,
		AccountID: papertrade.AccountID(r.AccountID),
		Symbol:    r.Symbol,
		Shares:    r.Shares,
		Price:     papertrade.M(r.Price, r.Currency),
		Total:     papertrade.M(r.Total, r.Currency),
		Kind:      papertrade.Kind(r.Kind),
		Timestamp: r.ExecutedAt.UTC(),
	}, nil
}

// Gorm is a Store in a SQL database.
type Gorm struct {
	db *gorm.DB
	// lock rows read for update; SQLite has a single writer anyway
	lock bool
}

// Open connects to the database 'dsn' of 'dialect' ("sqlite" or "postgres")
// and migrates the schema.
func Open(dialect, dsn string) (*Gorm, error) {
	var d gorm.Dialector
	switch dialect {
	case "sqlite":
		d = sqlite.Open(dsn)
	case "postgres":
		d = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}
	db, err := gorm.Open(d, &gorm.Config{
		Logger:         gorm_logrus.New(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s database: %w", dialect, err)
	}
	if dialect == "sqlite" {
		// a single connection serializes writers and keeps ":memory:" alive
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db)
}

// New returns a Store over an opened database, migrating its schema.
func New(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&accountRow{}, &holdingRow{}, &transactionRow{}); err != nil {
		return nil, fmt.Errorf("cannot migrate schema: %w", err)
	}
	log.WithField("dialect", db.Dialector.Name()).Debugln("database ready")
	return &Gorm{db: db, lock: db.Dialector.Name() == "postgres"}, nil
}

func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Gorm) CreateAccount(ctx context.Context, username, credential string, cash papertrade.Money) (papertrade.Account, error) {
	row := accountRow{Username: username, Hash: credential, Cash: cash.Decimal(), Currency: cash.Currency()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&accountRow{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(&row).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return papertrade.Account{}, fmt.Errorf("%w: %q", papertrade.ErrUsernameTaken, username)
	}
	if err != nil {
		return papertrade.Account{}, err
	}
	return row.account(), nil
}

func (s *Gorm) AccountByName(ctx context.Context, username string) (papertrade.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return papertrade.Account{}, fmt.Errorf("%w: %q", papertrade.ErrAccountNotFound, username)
	}
	if err != nil {
		return papertrade.Account{}, err
	}
	return row.account(), nil
}

func (s *Gorm) Account(ctx context.Context, id papertrade.AccountID) (papertrade.Account, error) {
	return takeAccount(s.db.WithContext(ctx), id)
}

func takeAccount(db *gorm.DB, id papertrade.AccountID) (papertrade.Account, error) {
	var row accountRow
	err := db.Where("id = ?", int64(id)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return papertrade.Account{}, fmt.Errorf("%w: %d", papertrade.ErrAccountNotFound, id)
	}
	if err != nil {
		return papertrade.Account{}, err
	}
	return row.account(), nil
}

func (s *Gorm) Holdings(ctx context.Context, id papertrade.AccountID) ([]papertrade.Holding, error) {
	var rows []holdingRow
	err := s.db.WithContext(ctx).
		Where("account_id = ?", int64(id)).
		Order("shares desc, symbol").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	hs := make([]papertrade.Holding, 0, len(rows))
	for _, r := range rows {
		hs = append(hs, papertrade.Holding{AccountID: id, Symbol: r.Symbol, Shares: r.Shares})
	}
	return hs, nil
}

func (s *Gorm) Transactions(ctx context.Context, id papertrade.AccountID) ([]papertrade.Transaction, error) {
	var rows []transactionRow
	err := s.db.WithContext(ctx).
		Where("account_id = ?", int64(id)).
		Order("executed_at desc, seq desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	txs := make([]papertrade.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := r.transaction()
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func (s *Gorm) Atomic(ctx context.Context, fn func(papertrade.LedgerTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx, lock: s.lock})
	})
}

type gormTx struct {
	db   *gorm.DB
	lock bool
}

func (t *gormTx) Account(id papertrade.AccountID) (papertrade.Account, error) {
	db := t.db
	if t.lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return takeAccount(db, id)
}

func (t *gormTx) UpdateCash(acct papertrade.Account, cash papertrade.Money) error {
	res := t.db.Model(&accountRow{}).
		Where("id = ? AND version = ?", int64(acct.ID), acct.Version).
		Updates(map[string]any{
			"cash":    cash.Decimal(),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: account %d", papertrade.ErrStoreConflict, acct.ID)
	}
	return nil
}

func (t *gormTx) Holding(id papertrade.AccountID, symbol string) (papertrade.Holding, bool, error) {
	var row holdingRow
	err := t.db.Where("account_id = ? AND symbol = ?", int64(id), symbol).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return papertrade.Holding{}, false, nil
	}
	if err != nil {
		return papertrade.Holding{}, false, err
	}
	return papertrade.Holding{AccountID: id, Symbol: row.Symbol, Shares: row.Shares}, true, nil
}

func (t *gormTx) UpsertHolding(h papertrade.Holding) error {
	row := holdingRow{AccountID: int64(h.AccountID), Symbol: h.Symbol, Shares: h.Shares}
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"shares"}),
	}).Create(&row).Error
}

func (t *gormTx) DeleteHolding(id papertrade.AccountID, symbol string) error {
	return t.db.Where("account_id = ? AND symbol = ?", int64(id), symbol).Delete(&holdingRow{}).Error
}

func (t *gormTx) AppendTransaction(tr papertrade.Transaction) error {
	row := transactionRow{
		UUID:       tr.ID.String(),
		AccountID:  int64(tr.AccountID),
		Symbol:     tr.Symbol,
		Shares:     tr.Shares,
		Price:      tr.Price.Decimal(),
		Total:      tr.Total.Decimal(),
		Currency:   tr.Total.Currency(),
		Kind:       string(tr.Kind),
		ExecutedAt: tr.Timestamp.UTC(),
	}
	return t.db.Create(&row).Error
}
