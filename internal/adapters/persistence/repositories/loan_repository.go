package repositories

import (
	"context"
	"errors"
	"time"

	"lendinghub/internal/adapters/persistence/models"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	return r.db.WithContext(ctx).Create(models.NewLoan(loan)).Error
}

// GetOpenByItemID gets the open loan of an item
func (r *loanRepository) GetOpenByItemID(ctx context.Context, itemID uuid.UUID) (*domain.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID.String()).
		Where("return_date IS NULL").
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return loan.ToDomain(), nil
}

// CountOpenByUserID counts open loans of a user
func (r *loanRepository) CountOpenByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("user_id = ?", userID.String()).
		Where("return_date IS NULL").
		Count(&count).Error
	return count, err
}

// Seal sets return date and late fee on a loan that is still open
func (r *loanRepository) Seal(ctx context.Context, id uuid.UUID, returned time.Time, fee float64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", id.String()).
		Where("return_date IS NULL").
		Updates(map[string]interface{}{
			"return_date": returned,
			"late_fee":    fee,
		})
	return result.RowsAffected == 1, result.Error
}

// ListByUserID lists all loans of a user, newest first
func (r *loanRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	var rows []*models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("borrow_date DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLoans(rows), nil
}

// ListOverdue lists open loans due before asOf
func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	var rows []*models.Loan
	err := r.db.WithContext(ctx).
		Where("return_date IS NULL").
		Where("due_date < ?", asOf).
		Order("due_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLoans(rows), nil
}

func toDomainLoans(rows []*models.Loan) []*domain.Loan {
	loans := make([]*domain.Loan, len(rows))
	for i, row := range rows {
		loans[i] = row.ToDomain()
	}
	return loans
}
