package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a lending event; it doubles as the message routing key
type EventType string

const (
	EventItemBorrowed EventType = "item.borrowed"
	EventItemReturned EventType = "item.returned"
	EventLoanOverdue  EventType = "loan.overdue"
)

// LendingEvent is published after a lending state change has been committed
type LendingEvent struct {
	Type        EventType  `json:"type"`
	ItemID      uuid.UUID  `json:"item_id"`
	UserID      uuid.UUID  `json:"user_id"`
	LoanID      uuid.UUID  `json:"loan_id"`
	DueDate     time.Time  `json:"due_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	LateFee     float64    `json:"late_fee"`
	DaysOverdue int        `json:"days_overdue,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// NewLoanEvent builds an event describing loan
func NewLoanEvent(eventType EventType, loan *Loan, at time.Time) LendingEvent {
	return LendingEvent{
		Type:       eventType,
		ItemID:     loan.ItemID,
		UserID:     loan.UserID,
		LoanID:     loan.ID,
		DueDate:    loan.DueDate,
		ReturnDate: loan.ReturnDate,
		LateFee:    loan.LateFee,
		OccurredAt: at,
	}
}
