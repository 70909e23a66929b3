package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
	loanRepo repositories.LoanRepository
}

// NewUserService creates a new user service
func NewUserService(repos *repositories.Repositories) *UserService {
	return &UserService{
		userRepo: repos.Users,
		loanRepo: repos.Loans,
	}
}

// RegisterUser registers a new user
func (s *UserService) RegisterUser(ctx context.Context, input *UserInput) (*domain.User, error) {
	user := &domain.User{ID: uuid.New()}
	if err := applyUserInput(user, input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateError{Field: "email", Value: user.Email}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateUserWriteError(err, user)
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("✅ User registered")
	return user, nil
}

// GetUser gets a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Kind: domain.KindUser, ID: id}
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces name, email and role of a user
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input *UserInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	currentEmail := user.Email
	if err := applyUserInput(user, input); err != nil {
		return nil, err
	}

	if !strings.EqualFold(user.Email, currentEmail) {
		exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateError{Field: "email", Value: user.Email}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, translateUserWriteError(err, user)
	}
	return user, nil
}

// ListUserLoans lists the lending history of a user, newest first
func (s *UserService) ListUserLoans(ctx context.Context, id uuid.UUID) ([]*domain.Loan, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	return s.loanRepo.ListByUserID(ctx, id)
}

// translateUserWriteError covers a concurrent registration that slipped past
// the ExistsByEmail check and was stopped by the unique index.
func translateUserWriteError(err error, user *domain.User) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateKey):
		return &domain.DuplicateError{Field: "email", Value: user.Email}
	case errors.Is(err, repositories.ErrRecordNotFound):
		return &domain.NotFoundError{Kind: domain.KindUser, ID: user.ID}
	default:
		return err
	}
}

func applyUserInput(user *domain.User, input *UserInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &domain.InvalidInputError{Field: "name", Reason: "must not be empty"}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return &domain.InvalidInputError{Field: "email", Reason: "must not be empty"}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return &domain.InvalidInputError{Field: "email", Reason: "must be a valid address"}
	}

	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !role.IsValid() {
		return &domain.InvalidInputError{Field: "role", Reason: "must be MEMBER, LIBRARIAN or ADMIN"}
	}

	user.Name = name
	user.Email = email
	user.Role = role
	return nil
}
