package domain

import (
	"strings"
	"time"
)

// Default lending policy values
const (
	DefaultLoanPeriodDays = 14
	DefaultLateFeePerDay  = 0.5
	DefaultBorrowingLimit = 5
)

// LendingPolicy holds the loan period, late fee and borrowing limit
type LendingPolicy struct {
	LoanPeriodDays int     `json:"loan_period_days"`
	LateFeePerDay  float64 `json:"late_fee_per_day"`
	BorrowingLimit int     `json:"borrowing_limit"`
}

// DefaultLendingPolicy returns the policy used when nothing is configured
func DefaultLendingPolicy() LendingPolicy {
	return LendingPolicy{
		LoanPeriodDays: DefaultLoanPeriodDays,
		LateFeePerDay:  DefaultLateFeePerDay,
		BorrowingLimit: DefaultBorrowingLimit,
	}
}

// DueDate returns the due date of a loan borrowed on the given day
func (p LendingPolicy) DueDate(borrowed time.Time) time.Time {
	return DateOf(borrowed).AddDate(0, 0, p.LoanPeriodDays)
}

// LateFee returns the fee owed when a loan due on due is returned on returned.
// Returning on or before the due date costs nothing.
func (p LendingPolicy) LateFee(due, returned time.Time) float64 {
	overdue := DaysBetween(due, returned)
	if overdue <= 0 {
		return 0
	}
	return float64(overdue) * p.LateFeePerDay
}

// HasReachedLimit reports whether openLoans leaves no room for another borrow
func (p LendingPolicy) HasReachedLimit(openLoans int64) bool {
	return openLoans >= int64(p.BorrowingLimit)
}

// DateOf truncates t to its calendar day, expressed at UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
