package messaging

import (
	"context"

	"lendinghub/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogPublisher writes lending events to the log. It is used when no broker
// is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a publisher that logs through the global logger
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{logger: log.Logger}
}

// NewLogPublisherWithLogger creates a publisher that logs through logger
func NewLogPublisherWithLogger(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs event at info level
func (p *LogPublisher) Publish(ctx context.Context, event domain.LendingEvent) error {
	e := p.logger.Info().
		Str("event", string(event.Type)).
		Str("item_id", event.ItemID.String()).
		Str("user_id", event.UserID.String()).
		Str("loan_id", event.LoanID.String()).
		Time("due_date", event.DueDate).
		Float64("late_fee", event.LateFee)
	if event.DaysOverdue > 0 {
		e = e.Int("days_overdue", event.DaysOverdue)
	}
	e.Msg("📣 Lending event")
	return nil
}
