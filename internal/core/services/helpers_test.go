package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"lendinghub/internal/adapters/persistence/memory"
	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"
	"lendinghub/internal/core/services"
)

// today is the fixed "now" of every test, mid-morning so date truncation matters
var today = time.Date(2024, time.May, 10, 10, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LendingEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.LendingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []domain.LendingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LendingEvent(nil), p.events...)
}

// ============================================================
// Write counting repositories
// ============================================================

type writeCounter struct{ n int64 }

func (w *writeCounter) inc() { atomic.AddInt64(&w.n, 1) }
func (w *writeCounter) Count() int64 { return atomic.LoadInt64(&w.n) }
func (w *writeCounter) Reset() { atomic.StoreInt64(&w.n, 0) }

type countingItems struct {
	repositories.ItemRepository
	w *writeCounter
}

func (r countingItems) Create(ctx context.Context, item *domain.Item) error {
	r.w.inc()
	return r.ItemRepository.Create(ctx, item)
}

func (r countingItems) UpdateDetails(ctx context.Context, id uuid.UUID, title, author string) error {
	r.w.inc()
	return r.ItemRepository.UpdateDetails(ctx, id, title, author)
}

func (r countingItems) Delete(ctx context.Context, id uuid.UUID) error {
	r.w.inc()
	return r.ItemRepository.Delete(ctx, id)
}

func (r countingItems) MarkBorrowed(ctx context.Context, id, userID uuid.UUID, due time.Time) (bool, error) {
	r.w.inc()
	return r.ItemRepository.MarkBorrowed(ctx, id, userID, due)
}

func (r countingItems) MarkReturned(ctx context.Context, id uuid.UUID) (bool, error) {
	r.w.inc()
	return r.ItemRepository.MarkReturned(ctx, id)
}

type countingUsers struct {
	repositories.UserRepository
	w *writeCounter
}

func (r countingUsers) Create(ctx context.Context, user *domain.User) error {
	r.w.inc()
	return r.UserRepository.Create(ctx, user)
}

func (r countingUsers) Update(ctx context.Context, user *domain.User) error {
	r.w.inc()
	return r.UserRepository.Update(ctx, user)
}

type countingLoans struct {
	repositories.LoanRepository
	w *writeCounter
}

func (r countingLoans) Create(ctx context.Context, loan *domain.Loan) error {
	r.w.inc()
	return r.LoanRepository.Create(ctx, loan)
}

func (r countingLoans) Seal(ctx context.Context, id uuid.UUID, returned time.Time, fee float64) (bool, error) {
	r.w.inc()
	return r.LoanRepository.Seal(ctx, id, returned, fee)
}

type countingTransactor struct {
	repositories.Transactor
	w *writeCounter
}

func (t countingTransactor) WithinTransaction(ctx context.Context, fn func(tx repositories.LendingTx) error) error {
	return t.Transactor.WithinTransaction(ctx, func(tx repositories.LendingTx) error {
		return fn(countingLendingTx{tx: tx, w: t.w})
	})
}

type countingLendingTx struct {
	tx repositories.LendingTx
	w  *writeCounter
}

func (t countingLendingTx) Items() repositories.ItemRepository {
	return countingItems{ItemRepository: t.tx.Items(), w: t.w}
}

func (t countingLendingTx) Loans() repositories.LoanRepository {
	return countingLoans{LoanRepository: t.tx.Loans(), w: t.w}
}

// ============================================================
// Fixture
// ============================================================

type fixture struct {
	repos     *repositories.Repositories
	writes    *writeCounter
	clock     *fakeClock
	publisher *recordingPublisher
	lending   *services.LendingService
	users     *services.UserService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPolicy(t, domain.DefaultLendingPolicy())
}

func newFixtureWithPolicy(t *testing.T, policy domain.LendingPolicy) *fixture {
	t.Helper()

	store := memory.NewRepositories()
	writes := &writeCounter{}
	repos := &repositories.Repositories{
		Items: countingItems{ItemRepository: store.Items, w: writes},
		Users: countingUsers{UserRepository: store.Users, w: writes},
		Loans: countingLoans{LoanRepository: store.Loans, w: writes},
		Tx:    countingTransactor{Transactor: store.Tx, w: writes},
	}
	clock := &fakeClock{now: today}
	publisher := &recordingPublisher{}

	return &fixture{
		repos:     repos,
		writes:    writes,
		clock:     clock,
		publisher: publisher,
		lending:   services.NewLendingService(repos, policy, publisher).WithClock(clock.Now),
		users:     services.NewUserService(repos),
	}
}

func (f *fixture) givenItem(t *testing.T, title, author string) *domain.Item {
	t.Helper()
	item, err := f.lending.AddItem(context.Background(), &domain.Item{Title: title, Author: author})
	require.NoError(t, err)
	return item
}

func (f *fixture) givenUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := f.users.RegisterUser(context.Background(), &services.UserInput{
		Name:  name,
		Email: uuid.NewString() + "@example.org",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) givenBorrowed(t *testing.T, item *domain.Item, user *domain.User, on time.Time) {
	t.Helper()
	previous := f.clock.Now()
	f.clock.Set(on)
	defer f.clock.Set(previous)

	_, err := f.lending.BorrowItem(context.Background(), item.ID, user.ID)
	require.NoError(t, err)
}

func (f *fixture) assertAllItemsConsistent(t *testing.T) {
	t.Helper()
	items, err := f.repos.Items.List(context.Background())
	require.NoError(t, err)
	for _, item := range items {
		require.Truef(t, item.IsConsistent(), "item %s has inconsistent lending fields", item.ID)
	}
}
