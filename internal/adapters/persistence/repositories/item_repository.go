package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"lendinghub/internal/adapters/persistence/models"
	"lendinghub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards so search fragments match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// itemRepository implements ItemRepository interface
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new item
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Create(models.NewItem(item)).Error
}

// GetByID gets an item by ID
func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return item.ToDomain(), nil
}

// List lists all items
func (r *itemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	return r.find(r.db.WithContext(ctx))
}

// Search lists items matching every criterion set in filter
func (r *itemRepository) Search(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error) {
	query := r.db.WithContext(ctx)
	if filter.Title != nil {
		query = query.Where("LOWER(title) LIKE ?", containsPattern(*filter.Title))
	}
	if filter.Author != nil {
		query = query.Where("LOWER(author) LIKE ?", containsPattern(*filter.Author))
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}
	return r.find(query)
}

func (r *itemRepository) find(query *gorm.DB) ([]*domain.Item, error) {
	var rows []*models.Item
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*domain.Item, len(rows))
	for i, row := range rows {
		items[i] = row.ToDomain()
	}
	return items, nil
}

// ExistsByID checks if an item exists
func (r *itemRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id.String()).Count(&count).Error
	return count > 0, err
}

// UpdateDetails updates title and author only
func (r *itemRepository) UpdateDetails(ctx context.Context, id uuid.UUID, title, author string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{
			"title":  title,
			"author": author,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		exists, err := r.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrRecordNotFound
		}
	}
	return nil
}

// Delete deletes an item
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// MarkBorrowed flips an available item to borrowed in a single conditional UPDATE
func (r *itemRepository) MarkBorrowed(ctx context.Context, id, userID uuid.UUID, due time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id.String()).
		Where("available = ?", true).
		Updates(map[string]interface{}{
			"available":   false,
			"borrower_id": userID.String(),
			"due_date":    due,
		})
	return result.RowsAffected == 1, result.Error
}

// MarkReturned flips a borrowed item back to available in a single conditional UPDATE
func (r *itemRepository) MarkReturned(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id.String()).
		Where("available = ?", false).
		Updates(map[string]interface{}{
			"available":   true,
			"borrower_id": gorm.Expr("NULL"),
			"due_date":    gorm.Expr("NULL"),
		})
	return result.RowsAffected == 1, result.Error
}

func containsPattern(fragment string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
}
