// Package memory provides process-local implementations of the repository
// interfaces. Every write takes the store mutex, so conditional writes are
// atomic and transactions roll back through an undo journal.
package memory

import (
	"context"
	"sort"
	"sync"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
)

// Store holds items, users and loans in maps guarded by one mutex
type Store struct {
	mu    sync.Mutex
	seq   int64
	items map[uuid.UUID]*entry[domain.Item]
	users map[uuid.UUID]*entry[domain.User]
	loans map[uuid.UUID]*entry[domain.Loan]
}

// entry keeps insertion order next to the stored value
type entry[T any] struct {
	seq   int64
	value T
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		items: make(map[uuid.UUID]*entry[domain.Item]),
		users: make(map[uuid.UUID]*entry[domain.User]),
		loans: make(map[uuid.UUID]*entry[domain.Loan]),
	}
}

// Repositories returns the repository bundle backed by s
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Items: &itemRepository{store: s},
		Users: &userRepository{store: s},
		Loans: &loanRepository{store: s},
		Tx:    &transactor{store: s},
	}
}

// NewRepositories creates a fresh store and returns its repositories
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// journal records undo steps of a transaction, newest last
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

// rollback must be called with the store mutex held
func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// transactor implements repositories.Transactor
type transactor struct {
	store *Store
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(tx repositories.LendingTx) error) error {
	j := &journal{}
	err := fn(&lendingTx{
		items: &itemRepository{store: t.store, journal: j},
		loans: &loanRepository{store: t.store, journal: j},
	})
	if err != nil {
		t.store.mu.Lock()
		j.rollback()
		t.store.mu.Unlock()
	}
	return err
}

type lendingTx struct {
	items *itemRepository
	loans *loanRepository
}

func (t *lendingTx) Items() repositories.ItemRepository { return t.items }
func (t *lendingTx) Loans() repositories.LoanRepository { return t.loans }

func sortedValues[T any](m map[uuid.UUID]*entry[T], keep func(*T) bool) []*entry[T] {
	out := make([]*entry[T], 0, len(m))
	for _, e := range m {
		if keep == nil || keep(&e.value) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
