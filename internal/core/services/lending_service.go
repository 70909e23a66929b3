package services

import (
	"context"
	"errors"
	"time"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// errLostRace is returned from a transaction whose conditional write matched nothing
var errLostRace = errors.New("conditional write lost")

// LendingService handles the catalog and the borrow/return protocol
type LendingService struct {
	itemRepo  repositories.ItemRepository
	userRepo  repositories.UserRepository
	loanRepo  repositories.LoanRepository
	tx        repositories.Transactor
	policy    domain.LendingPolicy
	publisher EventPublisher
	now       func() time.Time
}

// NewLendingService creates a new lending service
func NewLendingService(
	repos *repositories.Repositories,
	policy domain.LendingPolicy,
	publisher EventPublisher,
) *LendingService {
	return &LendingService{
		itemRepo:  repos.Items,
		userRepo:  repos.Users,
		loanRepo:  repos.Loans,
		tx:        repos.Tx,
		policy:    policy,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock replaces the time source used to decide "today"
func (s *LendingService) WithClock(now func() time.Time) *LendingService {
	s.now = now
	return s
}

// Policy returns the lending policy in force
func (s *LendingService) Policy() domain.LendingPolicy {
	return s.policy
}

// ============================================================
// Borrow / Return
// ============================================================

// BorrowItem lends an available item to a user
func (s *LendingService) BorrowItem(ctx context.Context, itemID, userID uuid.UUID) (*domain.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Availability is reported before the user is looked up
	if !item.Available {
		return nil, &domain.NotAvailableError{ItemID: itemID}
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Kind: domain.KindUser, ID: userID}
		}
		return nil, err
	}

	openLoans, err := s.loanRepo.CountOpenByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.policy.HasReachedLimit(openLoans) {
		return nil, &domain.LimitExceededError{UserID: userID, Limit: s.policy.BorrowingLimit}
	}

	today := domain.DateOf(s.now())
	loan := &domain.Loan{
		ID:         uuid.New(),
		ItemID:     itemID,
		UserID:     userID,
		BorrowDate: today,
		DueDate:    s.policy.DueDate(today),
	}

	err = s.tx.WithinTransaction(ctx, func(tx repositories.LendingTx) error {
		ok, err := tx.Items().MarkBorrowed(ctx, itemID, userID, loan.DueDate)
		if err != nil {
			return err
		}
		if !ok {
			return errLostRace
		}
		return tx.Loans().Create(ctx, loan)
	})
	if errors.Is(err, errLostRace) {
		return nil, s.borrowConflict(ctx, itemID)
	}
	if err != nil {
		return nil, err
	}

	item.MarkBorrowed(userID, loan.DueDate)

	log.Info().
		Str("item_id", itemID.String()).
		Str("user_id", userID.String()).
		Time("due_date", loan.DueDate).
		Msg("📕 Item borrowed")

	s.publish(ctx, domain.NewLoanEvent(domain.EventItemBorrowed, loan, s.now()))
	return item, nil
}

// borrowConflict re-reads an item after a lost conditional write
func (s *LendingService) borrowConflict(ctx context.Context, itemID uuid.UUID) error {
	exists, err := s.itemRepo.ExistsByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return &domain.NotFoundError{Kind: domain.KindItem, ID: itemID}
	}
	return &domain.NotAvailableError{ItemID: itemID}
}

// ReturnItem closes the open loan of an item and makes it available again
func (s *LendingService) ReturnItem(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.GetOpenByItemID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, &domain.AlreadyReturnedError{ItemID: itemID}
		}
		return nil, err
	}

	if item.Available {
		log.Warn().
			Str("item_id", itemID.String()).
			Str("loan_id", loan.ID.String()).
			Msg("⚠️ Item is marked available but has an open loan, closing the loan")
	}

	returned := domain.DateOf(s.now())
	fee := s.policy.LateFee(loan.DueDate, returned)

	err = s.tx.WithinTransaction(ctx, func(tx repositories.LendingTx) error {
		ok, err := tx.Loans().Seal(ctx, loan.ID, returned, fee)
		if err != nil {
			return err
		}
		if !ok {
			return errLostRace
		}
		_, err = tx.Items().MarkReturned(ctx, itemID)
		return err
	})
	if errors.Is(err, errLostRace) {
		return nil, &domain.AlreadyReturnedError{ItemID: itemID}
	}
	if err != nil {
		return nil, err
	}

	loan.Seal(returned, fee)
	item.MarkReturned()

	log.Info().
		Str("item_id", itemID.String()).
		Str("user_id", loan.UserID.String()).
		Float64("late_fee", fee).
		Msg("📗 Item returned")

	s.publish(ctx, domain.NewLoanEvent(domain.EventItemReturned, loan, s.now()))
	return item, nil
}

// publish sends an event; the lending operation has already committed,
// so delivery problems are only logged
func (s *LendingService) publish(ctx context.Context, event domain.LendingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error().Err(err).
			Str("event", string(event.Type)).
			Str("loan_id", event.LoanID.String()).
			Msg("❌ Failed to publish lending event")
	}
}
