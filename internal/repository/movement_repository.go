package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
)

// MovementRepository defines stock movement persistence operations.
// Movements are append-only: there is no update or delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *model.Movement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movement, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Movement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Movement, error)
	ListRecent(ctx context.Context, limit int) ([]model.Movement, error)
}

type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new movement repository.
func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

// Create appends a movement. Unknown item or user ids yield ErrInvalidReference.
func (r *movementRepository) Create(ctx context.Context, movement *model.Movement) error {
	res := r.db.WithContext(ctx).Omit(clause.Associations).Create(movement)
	if res.Error != nil {
		return apperrors.TranslateStoreError(res.Error, nil, apperrors.ErrInvalidReference)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNoEffect
	}
	return nil
}

// FindByID finds a movement with its item and acting user.
func (r *movementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Movement, error) {
	var movement model.Movement
	if err := r.db.WithContext(ctx).Preload("Item").Preload("User").
		Where("id = ?", id).First(&movement).Error; err != nil {
		return nil, notFound(err, apperrors.ErrMovementNotFound)
	}
	return &movement, nil
}

// ListByItem lists the movements of an item, newest first.
func (r *movementRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Movement, error) {
	var movements []model.Movement
	if err := r.db.WithContext(ctx).Preload("User").
		Where("item_id = ?", itemID).
		Order("transaction_date DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ListByUser lists the movements recorded by a user, newest first.
func (r *movementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Movement, error) {
	var movements []model.Movement
	if err := r.db.WithContext(ctx).Preload("Item").
		Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ListRecent lists the latest movements across all items.
func (r *movementRepository) ListRecent(ctx context.Context, limit int) ([]model.Movement, error) {
	var movements []model.Movement
	if err := r.db.WithContext(ctx).Preload("Item").Preload("User").
		Order("transaction_date DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
