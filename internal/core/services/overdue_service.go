package services

import (
	"context"
	"time"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ============================================================
// Overdue sweep (cron)
// ============================================================

// OverdueService periodically reports open loans that are past their due date
type OverdueService struct {
	loanRepo  repositories.LoanRepository
	policy    domain.LendingPolicy
	publisher EventPublisher
	schedule  string
	cron      *cron.Cron
	now       func() time.Time
}

// NewOverdueService creates a new overdue service running on a cron schedule
func NewOverdueService(
	loanRepo repositories.LoanRepository,
	policy domain.LendingPolicy,
	publisher EventPublisher,
	schedule string,
) *OverdueService {
	return &OverdueService{
		loanRepo:  loanRepo,
		policy:    policy,
		publisher: publisher,
		schedule:  schedule,
		cron:      cron.New(),
		now:       time.Now,
	}
}

// WithClock replaces the time source used to decide "today"
func (s *OverdueService) WithClock(now func() time.Time) *OverdueService {
	s.now = now
	return s
}

// Start registers the sweep job and starts the scheduler
func (s *OverdueService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			log.Error().Err(err).Msg("❌ Overdue sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Msg("🚀 OverdueService started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *OverdueService) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("🛑 OverdueService stopped")
}

// Sweep publishes a loan.overdue event for every open loan due before today
// and returns how many were found. Loans are not modified.
func (s *OverdueService) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	today := domain.DateOf(now)

	loans, err := s.loanRepo.ListOverdue(ctx, today)
	if err != nil {
		return 0, err
	}

	for _, loan := range loans {
		event := domain.NewLoanEvent(domain.EventLoanOverdue, loan, now)
		event.DaysOverdue = domain.DaysBetween(loan.DueDate, today)
		event.LateFee = s.policy.LateFee(loan.DueDate, today)

		if s.publisher == nil {
			continue
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Error().Err(err).Str("loan_id", loan.ID.String()).Msg("❌ Failed to publish overdue event")
		}
	}

	if len(loans) > 0 {
		log.Info().Int("count", len(loans)).Msg("⏰ Overdue loans found")
	}
	return len(loans), nil
}
