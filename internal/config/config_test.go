package config

import (
	"context"
	"errors"
	"testing"

	"lendinghub/internal/adapters/persistence/memory"
	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("LOAN_PERIOD_DAYS", "")
	t.Setenv("LATE_FEE_PER_DAY", "")
	t.Setenv("BORROWING_LIMIT", "")
	t.Setenv("OVERDUE_SWEEP_ENABLED", "")
	t.Setenv("OVERDUE_CRON", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("RABBITMQ_EXCHANGE", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StoreMySQL, cfg.Store)
	assert.Equal(t, domain.DefaultLendingPolicy(), cfg.LendingPolicy())
	assert.True(t, cfg.Overdue.Enabled)
	assert.Equal(t, "30 8 * * *", cfg.Overdue.Schedule)
	assert.Empty(t, cfg.Rabbit.URL)
	assert.Equal(t, "lending.events", cfg.Rabbit.Exchange)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func Test_Load_LendingPolicyFromEnv(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("LOAN_PERIOD_DAYS", "21")
	t.Setenv("LATE_FEE_PER_DAY", "1.25")
	t.Setenv("BORROWING_LIMIT", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, domain.LendingPolicy{LoanPeriodDays: 21, LateFeePerDay: 1.25, BorrowingLimit: 3}, cfg.LendingPolicy())
	assert.True(t, cfg.IsProd())
}

func Test_Load_AllowsZeroLateFee(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("LATE_FEE_PER_DAY", "0")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Zero(t, cfg.LendingPolicy().LateFeePerDay)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "app mode", key: "APP_MODE", value: "staging"},
		{name: "store driver", key: "STORE_DRIVER", value: "postgres"},
		{name: "zero loan period", key: "LOAN_PERIOD_DAYS", value: "0"},
		{name: "text loan period", key: "LOAN_PERIOD_DAYS", value: "two weeks"},
		{name: "negative fee", key: "LATE_FEE_PER_DAY", value: "-0.5"},
		{name: "zero limit", key: "BORROWING_LIMIT", value: "0"},
		{name: "sweep flag", key: "OVERDUE_SWEEP_ENABLED", value: "sometimes"},
		{name: "seed flag", key: "SEED_DEMO_DATA", value: "maybe"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_MODE", "dev")
			t.Setenv(tc.key, tc.value)

			_, err := Load()

			assert.Error(t, err)
		})
	}
}

func Test_HealthCheck_MemoryStore(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("STORE_DRIVER", "memory")
	_, err := Load()
	require.NoError(t, err)

	assert.NoError(t, HealthCheck())
}

func Test_Seeder_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	seeder := NewSeeder(repos)

	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	items, err := repos.Items.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(demoItems))
	for _, item := range items {
		assert.True(t, item.Available)
		assert.True(t, item.IsConsistent())
	}

	exists, err := repos.Users.ExistsByEmail(ctx, "member@lendinghub.local")
	require.NoError(t, err)
	assert.True(t, exists)
}

type failingUsers struct {
	repositories.UserRepository
	err error
}

func (r failingUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, r.err
}

func Test_Seeder_ReportsStoreFailure(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	unreachable := errors.New("connection refused")
	repos.Users = failingUsers{UserRepository: repos.Users, err: unreachable}

	err := NewSeeder(repos).Run(ctx)

	require.ErrorIs(t, err, unreachable)
	assert.Contains(t, err.Error(), "failed to seed users")

	items, err := repos.Items.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
