package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system
type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleLibrarian Role = "LIBRARIAN"
	RoleAdmin     Role = "ADMIN"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// User represents a library user in the domain layer
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Item represents a lendable catalog entry.
// Available, BorrowerID and DueDate only change together through
// MarkBorrowed and MarkReturned.
type Item struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Available  bool       `json:"available"`
	BorrowerID *uuid.UUID `json:"borrower_id"`
	DueDate    *time.Time `json:"due_date"`
}

// IsConsistent reports whether the lending fields agree with each other
func (i *Item) IsConsistent() bool {
	if i.Available {
		return i.BorrowerID == nil && i.DueDate == nil
	}
	return i.BorrowerID != nil && i.DueDate != nil
}

// MarkBorrowed puts the item on loan to userID until due
func (i *Item) MarkBorrowed(userID uuid.UUID, due time.Time) {
	borrower := userID
	dueDate := due
	i.Available = false
	i.BorrowerID = &borrower
	i.DueDate = &dueDate
}

// MarkReturned makes the item lendable again. New items start in this state.
func (i *Item) MarkReturned() {
	i.Available = true
	i.BorrowerID = nil
	i.DueDate = nil
}

// Loan represents one borrow-to-return cycle of an item by a user
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	ItemID     uuid.UUID  `json:"item_id"`
	UserID     uuid.UUID  `json:"user_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	LateFee    float64    `json:"late_fee"`
}

// IsOpen reports whether the loan has not been returned yet
func (l *Loan) IsOpen() bool {
	return l.ReturnDate == nil
}

// Seal records the return of the loan. A sealed loan is never changed again.
func (l *Loan) Seal(returned time.Time, fee float64) {
	r := returned
	l.ReturnDate = &r
	l.LateFee = fee
}

// ItemFilter holds optional search criteria, combined with AND
type ItemFilter struct {
	Title     *string
	Author    *string
	Available *bool
}

// IsEmpty reports whether no criterion is set
func (f ItemFilter) IsEmpty() bool {
	return f.Title == nil && f.Author == nil && f.Available == nil
}

// Matches reports whether item satisfies every criterion that is set
func (f ItemFilter) Matches(item *Item) bool {
	if f.Title != nil && !containsFold(item.Title, *f.Title) {
		return false
	}
	if f.Author != nil && !containsFold(item.Author, *f.Author) {
		return false
	}
	if f.Available != nil && item.Available != *f.Available {
		return false
	}
	return true
}
