package memory

import (
	"context"
	"time"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
)

type itemRepository struct {
	store   *Store
	journal *journal
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = &entry[domain.Item]{seq: s.next(), value: copyItem(item)}
	r.journal.record(func() { delete(s.items, item.ID) })
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.items[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	item := copyItem(&e.value)
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	return r.Search(ctx, domain.ItemFilter{})
}

func (r *itemRepository) Search(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := sortedValues(r.store.items, filter.Matches)
	items := make([]*domain.Item, len(entries))
	for i, e := range entries {
		item := copyItem(&e.value)
		items[i] = &item
	}
	return items, nil
}

func (r *itemRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.items[id]
	return ok, nil
}

func (r *itemRepository) UpdateDetails(ctx context.Context, id uuid.UUID, title, author string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.items[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	e.value.Title = title
	e.value.Author = author
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	delete(s.items, id)
	r.journal.record(func() { s.items[id] = e })
	return nil
}

func (r *itemRepository) MarkBorrowed(ctx context.Context, id, userID uuid.UUID, due time.Time) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok || !e.value.Available {
		return false, nil
	}
	e.value.MarkBorrowed(userID, due)
	r.journal.record(func() {
		if e, ok := s.items[id]; ok {
			e.value.MarkReturned()
		}
	})
	return true, nil
}

func (r *itemRepository) MarkReturned(ctx context.Context, id uuid.UUID) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok || e.value.Available {
		return false, nil
	}
	previous := copyItem(&e.value)
	e.value.MarkReturned()
	r.journal.record(func() {
		if e, ok := s.items[id]; ok && previous.BorrowerID != nil && previous.DueDate != nil {
			e.value.MarkBorrowed(*previous.BorrowerID, *previous.DueDate)
		}
	})
	return true, nil
}

// copyItem returns a value that shares no pointers with item
func copyItem(item *domain.Item) domain.Item {
	out := *item
	if item.BorrowerID != nil {
		borrower := *item.BorrowerID
		out.BorrowerID = &borrower
	}
	if item.DueDate != nil {
		due := *item.DueDate
		out.DueDate = &due
	}
	return out
}
