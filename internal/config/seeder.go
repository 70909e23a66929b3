package config

import (
	"context"
	"fmt"

	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Seeder handles demo data seeding
type Seeder struct {
	repos *repositories.Repositories
}

// NewSeeder creates a new seeder instance
func NewSeeder(repos *repositories.Repositories) *Seeder {
	return &Seeder{repos: repos}
}

// Run executes all seeders
// This is for development/testing only
func (s *Seeder) Run(ctx context.Context) error {
	log.Info().Msg("🌱 Running demo data seeders...")

	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.seedItems(ctx); err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	log.Info().Msg("✅ Demo data seeding completed")
	return nil
}

var demoUsers = []domain.User{
	{Name: "Library Admin", Email: "admin@lendinghub.local", Role: domain.RoleAdmin},
	{Name: "Front Desk", Email: "librarian@lendinghub.local", Role: domain.RoleLibrarian},
	{Name: "Demo Member", Email: "member@lendinghub.local", Role: domain.RoleMember},
}

var demoItems = []domain.Item{
	{Title: "The Name of the Rose", Author: "Umberto Eco"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
	{Title: "Neuromancer", Author: "William Gibson"},
	{Title: "Invisible Cities", Author: "Italo Calvino"},
	{Title: "Kindred", Author: "Octavia E. Butler"},
}

// seedUsers creates demo users whose email is not taken yet
func (s *Seeder) seedUsers(ctx context.Context) error {
	created := 0
	for _, u := range demoUsers {
		exists, err := s.repos.Users.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		user := u
		user.ID = uuid.New()
		if err := s.repos.Users.Create(ctx, &user); err != nil {
			return err
		}
		created++
	}

	log.Info().Int("created", created).Msg("👤 Demo users seeded")
	return nil
}

// seedItems creates demo items when the catalog is empty
func (s *Seeder) seedItems(ctx context.Context) error {
	items, err := s.repos.Items.List(ctx)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return nil
	}

	for _, it := range demoItems {
		item := it
		item.ID = uuid.New()
		item.MarkReturned()
		if err := s.repos.Items.Create(ctx, &item); err != nil {
			return err
		}
	}

	log.Info().Int("created", len(demoItems)).Msg("📚 Demo items seeded")
	return nil
}
