package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Search(ctx context.Context, query string) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	return apperrors.TranslateStoreError(err, apperrors.ErrDuplicateCategory, nil)
}

// Update updates name and description of an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	res := r.db.WithContext(ctx).Model(category).
		Select("name", "description", "updated_at").
		Updates(category)
	if res.Error != nil {
		return apperrors.TranslateStoreError(res.Error, apperrors.ErrDuplicateCategory, nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category that no item references.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{})
	if res.Error != nil {
		return apperrors.TranslateStoreError(res.Error, nil, apperrors.ErrCategoryInUse)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// FindByID finds a category by ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, notFound(err, apperrors.ErrCategoryNotFound)
	}
	return &category, nil
}

// FindByName finds a category by its unique name.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, notFound(err, apperrors.ErrCategoryNotFound)
	}
	return &category, nil
}

// List lists all categories by name.
func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Search matches query against name and description, case-insensitively.
func (r *categoryRepository) Search(ctx context.Context, query string) ([]model.Category, error) {
	pattern := likePattern(query)
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func likePattern(query string) string {
	return "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
}
