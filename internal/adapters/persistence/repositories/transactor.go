package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormTransactor implements Transactor on top of gorm transactions
type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// WithinTransaction runs fn inside a database transaction
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(tx LendingTx) error) error {
	return t.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormLendingTx{db: db})
	})
}

type gormLendingTx struct {
	db *gorm.DB
}

func (t *gormLendingTx) Items() ItemRepository { return NewItemRepository(t.db) }
func (t *gormLendingTx) Loans() LoanRepository { return NewLoanRepository(t.db) }

// New creates the gorm backed repositories
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Items: NewItemRepository(db),
		Users: NewUserRepository(db),
		Loans: NewLoanRepository(db),
		Tx:    NewTransactor(db),
	}
}
