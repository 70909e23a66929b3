package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"
	"lendinghub/internal/core/services"
)

// staleEmailCheck answers ExistsByEmail as if a concurrent registration had
// not committed yet, leaving the unique index as the only guard.
type staleEmailCheck struct {
	repositories.UserRepository
}

func (staleEmailCheck) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func Test_RegisterUser_DefaultsToMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.RegisterUser(ctx, &services.UserInput{Name: " Ada Lovelace ", Email: "Ada@Example.org"})

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.org", user.Email)
	assert.Equal(t, domain.RoleMember, user.Role)

	stored, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, stored)
}

func Test_RegisterUser_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		input services.UserInput
		field string
	}{
		{name: "empty name", input: services.UserInput{Email: "a@example.org"}, field: "name"},
		{name: "empty email", input: services.UserInput{Name: "Ada"}, field: "email"},
		{name: "malformed email", input: services.UserInput{Name: "Ada", Email: "not-an-email"}, field: "email"},
		{name: "display name email", input: services.UserInput{Name: "Ada", Email: "Ada <a@example.org>"}, field: "email"},
		{name: "unknown role", input: services.UserInput{Name: "Ada", Email: "a@example.org", Role: "GUEST"}, field: "role"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.users.RegisterUser(context.Background(), &tc.input)

			var invalid *domain.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
			assert.Zero(t, f.writes.Count())
		})
	}
}

func Test_RegisterUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.RegisterUser(ctx, &services.UserInput{Name: "Ada", Email: "ada@example.org"})
	require.NoError(t, err)

	_, err = f.users.RegisterUser(ctx, &services.UserInput{Name: "Other Ada", Email: "ADA@example.org"})

	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func Test_RegisterUser_DuplicateEmailCaughtByStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := f.givenUser(t, "Ada")
	repos := *f.repos
	repos.Users = staleEmailCheck{UserRepository: f.repos.Users}
	users := services.NewUserService(&repos)

	_, err := users.RegisterUser(ctx, &services.UserInput{Name: "Other Ada", Email: strings.ToUpper(ada.Email)})

	var duplicate *domain.DuplicateError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "email", duplicate.Field)

	grace := f.givenUser(t, "Grace")
	_, err = users.UpdateUser(ctx, grace.ID, &services.UserInput{Name: "Grace", Email: ada.Email})
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func Test_UpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.givenUser(t, "Ada")

	got, err := f.users.UpdateUser(ctx, user.ID, &services.UserInput{
		Name:  "Ada King",
		Email: "countess@example.org",
		Role:  domain.RoleLibrarian,
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Ada King", got.Name)
	assert.Equal(t, domain.RoleLibrarian, got.Role)

	stored, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func Test_UpdateUser_KeepingOwnEmailIsNotDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.givenUser(t, "Ada")

	_, err := f.users.UpdateUser(ctx, user.ID, &services.UserInput{Name: "Ada K", Email: user.Email, Role: domain.RoleAdmin})

	assert.NoError(t, err)
}

func Test_UpdateUser_EmailTakenByOther(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := f.givenUser(t, "Ada")
	grace := f.givenUser(t, "Grace")

	_, err := f.users.UpdateUser(ctx, grace.ID, &services.UserInput{Name: "Grace", Email: ada.Email})

	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func Test_UpdateUser_NotFound(t *testing.T) {
	_, err := newFixture(t).users.UpdateUser(context.Background(), uuid.New(), &services.UserInput{Name: "A", Email: "a@example.org"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func Test_ListUserLoans_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.givenUser(t, "Ada")
	older := f.givenItem(t, "Older", "Someone")
	newer := f.givenItem(t, "Newer", "Someone")
	f.givenBorrowed(t, older, user, today.AddDate(0, 0, -10))
	f.givenBorrowed(t, newer, user, today)

	loans, err := f.users.ListUserLoans(ctx, user.ID)

	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, newer.ID, loans[0].ItemID)
	assert.Equal(t, older.ID, loans[1].ItemID)
}

func Test_ListUserLoans_UserNotFound(t *testing.T) {
	_, err := newFixture(t).users.ListUserLoans(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
