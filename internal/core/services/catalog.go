package services

import (
	"context"
	"errors"
	"strings"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ============================================================
// Catalog (Item CRUD & Search)
// ============================================================

// AddItem stores a new item. Lending state supplied by the caller is ignored:
// a new item is always available with no borrower.
func (s *LendingService) AddItem(ctx context.Context, input *domain.Item) (*domain.Item, error) {
	details, err := validateItemDetails(ItemDetails{Title: input.Title, Author: input.Author})
	if err != nil {
		return nil, err
	}

	item := &domain.Item{
		ID:     uuid.New(),
		Title:  details.Title,
		Author: details.Author,
	}
	item.MarkReturned()

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Info().Str("item_id", item.ID.String()).Str("title", item.Title).Msg("✅ Item added")
	return item, nil
}

// GetItem gets an item by ID
func (s *LendingService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Kind: domain.KindItem, ID: id}
		}
		return nil, err
	}
	return item, nil
}

// ListItems lists all items
func (s *LendingService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.itemRepo.List(ctx)
}

// UpdateItem replaces title and author. Lending state is only changed by
// BorrowItem and ReturnItem.
func (s *LendingService) UpdateItem(ctx context.Context, id uuid.UUID, input ItemDetails) (*domain.Item, error) {
	details, err := validateItemDetails(input)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.UpdateDetails(ctx, id, details.Title, details.Author); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Kind: domain.KindItem, ID: id}
		}
		return nil, err
	}

	return s.GetItem(ctx, id)
}

// DeleteItem deletes an item. Its loans stay as lending history.
func (s *LendingService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	exists, err := s.itemRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &domain.NotFoundError{Kind: domain.KindItem, ID: id}
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return &domain.NotFoundError{Kind: domain.KindItem, ID: id}
		}
		return err
	}

	log.Info().Str("item_id", id.String()).Msg("🗑️ Item deleted")
	return nil
}

// SearchItems lists items matching all supplied criteria
func (s *LendingService) SearchItems(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error) {
	if filter.IsEmpty() {
		return s.ListItems(ctx)
	}
	return s.itemRepo.Search(ctx, filter)
}

func validateItemDetails(input ItemDetails) (ItemDetails, error) {
	details := ItemDetails{
		Title:  strings.TrimSpace(input.Title),
		Author: strings.TrimSpace(input.Author),
	}
	if details.Title == "" {
		return details, &domain.InvalidInputError{Field: "title", Reason: "must not be empty"}
	}
	if details.Author == "" {
		return details, &domain.InvalidInputError{Field: "author", Reason: "must not be empty"}
	}
	return details, nil
}
