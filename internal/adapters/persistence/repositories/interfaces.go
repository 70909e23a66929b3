package repositories

import (
	"context"
	"errors"
	"time"

	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned by every implementation when a lookup finds nothing
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when a write hits a unique constraint
var ErrDuplicateKey = errors.New("duplicate key")

// ItemRepository defines item repository interface.
// MarkBorrowed and MarkReturned are conditional writes: they report false
// when the item is missing or not in the expected lending state.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	Search(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, title, author string) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkBorrowed(ctx context.Context, id, userID uuid.UUID, due time.Time) (bool, error)
	MarkReturned(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// LoanRepository defines loan repository interface.
// Seal is a conditional write that only succeeds while the loan is open.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetOpenByItemID(ctx context.Context, itemID uuid.UUID) (*domain.Loan, error)
	CountOpenByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Seal(ctx context.Context, id uuid.UUID, returned time.Time, fee float64) (bool, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Loan, error)
}

// LendingTx exposes the repositories that take part in a lending transaction
type LendingTx interface {
	Items() ItemRepository
	Loans() LoanRepository
}

// Transactor runs fn atomically: every write made through tx is committed
// when fn returns nil and rolled back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx LendingTx) error) error
}

// Repositories bundles one store implementation
type Repositories struct {
	Items ItemRepository
	Users UserRepository
	Loans LoanRepository
	Tx    Transactor
}
