package memory

import (
	"context"
	"sort"
	"time"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
)

type loanRepository struct {
	store   *Store
	journal *journal
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans[loan.ID] = &entry[domain.Loan]{seq: s.next(), value: copyLoan(loan)}
	r.journal.record(func() { delete(s.loans, loan.ID) })
	return nil
}

func (r *loanRepository) GetOpenByItemID(ctx context.Context, itemID uuid.UUID) (*domain.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.loans {
		if e.value.ItemID == itemID && e.value.IsOpen() {
			loan := copyLoan(&e.value)
			return &loan, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *loanRepository) CountOpenByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, e := range r.store.loans {
		if e.value.UserID == userID && e.value.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (r *loanRepository) Seal(ctx context.Context, id uuid.UUID, returned time.Time, fee float64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.loans[id]
	if !ok || !e.value.IsOpen() {
		return false, nil
	}
	e.value.Seal(returned, fee)
	r.journal.record(func() {
		if e, ok := s.loans[id]; ok {
			e.value.ReturnDate = nil
			e.value.LateFee = 0
		}
	})
	return true, nil
}

func (r *loanRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := sortedValues(r.store.loans, func(l *domain.Loan) bool { return l.UserID == userID })
	// newest borrow first, later inserts first on the same day
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.value.BorrowDate.Equal(b.value.BorrowDate) {
			return a.value.BorrowDate.After(b.value.BorrowDate)
		}
		return a.seq > b.seq
	})
	return toLoans(entries), nil
}

func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := sortedValues(r.store.loans, func(l *domain.Loan) bool {
		return l.IsOpen() && l.DueDate.Before(asOf)
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value.DueDate.Before(entries[j].value.DueDate)
	})
	return toLoans(entries), nil
}

func toLoans(entries []*entry[domain.Loan]) []*domain.Loan {
	loans := make([]*domain.Loan, len(entries))
	for i, e := range entries {
		loan := copyLoan(&e.value)
		loans[i] = &loan
	}
	return loans
}

func copyLoan(loan *domain.Loan) domain.Loan {
	out := *loan
	if loan.ReturnDate != nil {
		returned := *loan.ReturnDate
		out.ReturnDate = &returned
	}
	return out
}
