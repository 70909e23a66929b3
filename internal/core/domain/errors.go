package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common domain errors. The typed errors below match these with errors.Is.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateEntry  = errors.New("duplicate entry")
	ErrNotAvailable    = errors.New("item not available")
	ErrAlreadyReturned = errors.New("item already returned")
	ErrLimitExceeded   = errors.New("borrowing limit exceeded")
)

// Resource kinds used in NotFoundError
const (
	KindItem = "item"
	KindUser = "user"
)

// NotFoundError reports a missing item or user
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotAvailableError reports an attempt to borrow an item that is on loan
type NotAvailableError struct {
	ItemID uuid.UUID
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("item with ID %s is not available for borrowing", e.ItemID)
}

func (e *NotAvailableError) Is(target error) bool { return target == ErrNotAvailable }

// AlreadyReturnedError reports a return of an item without an open loan
type AlreadyReturnedError struct {
	ItemID uuid.UUID
}

func (e *AlreadyReturnedError) Error() string {
	return fmt.Sprintf("item with ID %s is already available or has no open loan", e.ItemID)
}

func (e *AlreadyReturnedError) Is(target error) bool { return target == ErrAlreadyReturned }

// LimitExceededError reports a user holding the maximum number of open loans
type LimitExceededError struct {
	UserID uuid.UUID
	Limit  int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("user with ID %s has reached the borrowing limit of %d items", e.UserID, e.Limit)
}

func (e *LimitExceededError) Is(target error) bool { return target == ErrLimitExceeded }

// InvalidInputError reports a field that failed validation
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// DuplicateError reports a unique field already taken by another record
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicateEntry }
