package models

import (
	"testing"
	"time"

	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Item_MappingKeepsLendingStateTogether(t *testing.T) {
	borrower := uuid.New()
	due := time.Date(2024, time.May, 24, 0, 0, 0, 0, time.UTC)
	borrowed := &domain.Item{ID: uuid.New(), Title: "Kindred", Author: "Octavia E. Butler"}
	borrowed.MarkBorrowed(borrower, due)

	row := NewItem(borrowed)
	require.NotNil(t, row.BorrowerID)
	assert.Equal(t, borrower.String(), *row.BorrowerID)
	assert.False(t, row.Available)

	back := row.ToDomain()
	assert.Equal(t, borrowed, back)
	assert.True(t, back.IsConsistent())

	available := &domain.Item{ID: uuid.New(), Title: "Kindred", Author: "Octavia E. Butler"}
	available.MarkReturned()

	back = NewItem(available).ToDomain()
	assert.Nil(t, back.BorrowerID)
	assert.Nil(t, back.DueDate)
	assert.True(t, back.IsConsistent())
}

func Test_Loan_MappingTruncatesDates(t *testing.T) {
	loan := &domain.Loan{
		ID:         uuid.New(),
		ItemID:     uuid.New(),
		UserID:     uuid.New(),
		BorrowDate: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, time.May, 24, 0, 0, 0, 0, time.UTC),
	}
	row := NewLoan(loan)
	row.BorrowDate = row.BorrowDate.Add(9 * time.Hour)

	back := row.ToDomain()
	assert.Equal(t, loan.BorrowDate, back.BorrowDate)
	assert.True(t, back.IsOpen())

	returned := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	row.ReturnDate = &returned
	row.LateFee = 3.5

	back = row.ToDomain()
	assert.False(t, back.IsOpen())
	assert.InDelta(t, 3.5, back.LateFee, 1e-9)
}
