package services

import (
	"context"

	"lendinghub/internal/core/domain"
)

// EventPublisher delivers lending events to interested parties.
// Implementations live in internal/adapters/messaging.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LendingEvent) error
}

// Input DTOs

// ItemDetails holds the catalog fields of an item
type ItemDetails struct {
	Title  string
	Author string
}

// UserInput for registering or updating a user
type UserInput struct {
	Name  string
	Email string
	Role  domain.Role
}
