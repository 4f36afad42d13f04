package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
)

// ItemRepository defines inventory item persistence operations.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error)
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int, at time.Time) error
	List(ctx context.Context) ([]model.Item, error)
	Search(ctx context.Context, filter model.ItemFilter) ([]model.Item, error)
	LowStock(ctx context.Context, threshold int) ([]model.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new item.
func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
	return apperrors.TranslateStoreError(err, apperrors.ErrDuplicateSKU, apperrors.ErrInvalidCategoryReference)
}

// Update overwrites the descriptive columns of an existing item. Quantity is
// not written here; it changes through SetQuantity only.
func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	res := r.db.WithContext(ctx).Model(item).Omit(clause.Associations).
		Select("name", "description", "category_id", "unit_price", "sku", "location", "updated_at").
		Updates(item)
	if res.Error != nil {
		return apperrors.TranslateStoreError(res.Error, apperrors.ErrDuplicateSKU, apperrors.ErrInvalidCategoryReference)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

// Delete removes an item that has no recorded movements.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Item{})
	if res.Error != nil {
		return apperrors.TranslateStoreError(res.Error, nil, apperrors.ErrItemInUse)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

// FindByID finds an item by ID together with its category.
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, notFound(err, apperrors.ErrItemNotFound)
	}
	return &item, nil
}

// FindByIDForUpdate finds an item by ID with a row-level lock held until the
// surrounding transaction ends. SQLite has no row locks; there the
// transaction's write lock serializes writers instead.
func (r *itemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, notFound(err, apperrors.ErrItemNotFound)
	}
	return &item, nil
}

// SetQuantity writes the stock level of an item, stamping it with at. It
// fails with ErrNoEffect when no row was written.
func (r *itemRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNoEffect
	}
	return nil
}

// List lists all items by name.
func (r *itemRepository) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Preload("Category").Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Search lists items matching every set field of filter.
func (r *itemRepository) Search(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	q := r.db.WithContext(ctx).Preload("Category")

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinQuantity != nil {
		q = q.Where("quantity >= ?", *filter.MinQuantity)
	}
	if filter.MaxQuantity != nil {
		q = q.Where("quantity <= ?", *filter.MaxQuantity)
	}
	if filter.MinPrice != nil {
		q = q.Where("unit_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("unit_price <= ?", *filter.MaxPrice)
	}
	if filter.Location != nil {
		q = q.Where("LOWER(location) LIKE ?", likePattern(*filter.Location))
	}
	if filter.Query != nil {
		pattern := likePattern(*filter.Query)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern, pattern)
	}

	var items []model.Item
	if err := q.Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// LowStock lists items whose quantity is at or below threshold, lowest first.
func (r *itemRepository) LowStock(ctx context.Context, threshold int) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("quantity <= ?", threshold).
		Order("quantity").Order("name").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
