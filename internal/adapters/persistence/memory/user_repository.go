package memory

import (
	"context"
	"strings"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, user.ID) {
		return repositories.ErrDuplicateKey
	}
	s.users[user.ID] = &entry[domain.User]{seq: s.next(), value: *user}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	user := e.value
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.users[user.ID]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	if r.store.emailTaken(user.Email, user.ID) {
		return repositories.ErrDuplicateKey
	}
	e.value = *user
	return nil
}

// ExistsByEmail compares case-insensitively, like the MySQL default collation
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.emailTaken(email, uuid.Nil), nil
}

// emailTaken stands in for the unique email index. Callers hold s.mu.
func (s *Store) emailTaken(email string, except uuid.UUID) bool {
	for id, e := range s.users {
		if id != except && strings.EqualFold(e.value.Email, email) {
			return true
		}
	}
	return false
}
