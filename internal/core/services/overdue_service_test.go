package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendinghub/internal/core/domain"
	"lendinghub/internal/core/services"
)

func Test_OverdueService_Sweep_PublishesAccruedFees(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.givenUser(t, "Ada")
	late := f.givenItem(t, "Late", "Someone")
	onTime := f.givenItem(t, "On Time", "Someone")
	returned := f.givenItem(t, "Returned", "Someone")
	f.givenBorrowed(t, late, user, today.AddDate(0, 0, -18)) // due 4 days ago
	f.givenBorrowed(t, onTime, user, today.AddDate(0, 0, -14))
	f.givenBorrowed(t, returned, user, today.AddDate(0, 0, -30))
	_, err := f.lending.ReturnItem(ctx, returned.ID)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	sweeper := services.NewOverdueService(f.repos.Loans, domain.DefaultLendingPolicy(), publisher, "@daily").
		WithClock(f.clock.Now)
	f.writes.Reset()

	count, err := sweeper.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventLoanOverdue, events[0].Type)
	assert.Equal(t, late.ID, events[0].ItemID)
	assert.Equal(t, 4, events[0].DaysOverdue)
	assert.InDelta(t, 2.0, events[0].LateFee, 1e-9)
	assert.Zero(t, f.writes.Count())

	loan, err := f.repos.Loans.GetOpenByItemID(ctx, late.ID)
	require.NoError(t, err)
	assert.Zero(t, loan.LateFee)
}

func Test_OverdueService_StartRejectsBadSchedule(t *testing.T) {
	sweeper := services.NewOverdueService(newFixture(t).repos.Loans, domain.DefaultLendingPolicy(), nil, "not a schedule")

	assert.Error(t, sweeper.Start())
}

func Test_OverdueService_StartStop(t *testing.T) {
	sweeper := services.NewOverdueService(newFixture(t).repos.Loans, domain.DefaultLendingPolicy(), nil, "30 8 * * *")

	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}
