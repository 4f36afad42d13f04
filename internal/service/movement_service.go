package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"invtrack/internal/cache"
	"invtrack/internal/ledger"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

const (
	// DefaultRecentLimit is the number of movements listed when no limit is given.
	DefaultRecentLimit = 20
	// MaxRecentLimit caps the number of movements listed at once.
	MaxRecentLimit = 100
)

// Ledger records stock movements atomically.
type Ledger interface {
	RecordMovement(ctx context.Context, entry ledger.Entry) (*model.Movement, error)
}

// RecordMovementInput describes a movement requested by a caller.
type RecordMovementInput struct {
	ItemID   uuid.UUID
	Type     model.MovementType
	Quantity int
	// UserID attributes the movement. uuid.Nil means the caller.
	UserID uuid.UUID
	Notes  *string
}

// MovementService records and queries stock movements.
type MovementService interface {
	RecordMovement(ctx context.Context, in RecordMovementInput, caller uuid.UUID) (*model.Movement, error)
	GetMovement(ctx context.Context, id uuid.UUID) (*model.Movement, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Movement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Movement, error)
	ListRecent(ctx context.Context, limit int) ([]model.Movement, error)
}

type movementService struct {
	ledger   Ledger
	repo     repository.MovementRepository
	items    repository.ItemRepository
	cache    *cache.Client
	cacheTTL time.Duration
}

// MovementServiceOption configures the movement service.
type MovementServiceOption func(*movementService)

// WithMovementCache refreshes the cached copy of an item, read through
// items, after each committed movement. c may be nil.
func WithMovementCache(items repository.ItemRepository, c *cache.Client, ttl time.Duration) MovementServiceOption {
	return func(s *movementService) {
		s.items = items
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewMovementService builds a MovementService.
func NewMovementService(l Ledger, repo repository.MovementRepository, opts ...MovementServiceOption) MovementService {
	s := &movementService{
		ledger:   l,
		repo:     repo,
		cacheTTL: defaultItemCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *movementService) RecordMovement(ctx context.Context, in RecordMovementInput, caller uuid.UUID) (*model.Movement, error) {
	userID := in.UserID
	if userID == uuid.Nil {
		userID = caller
	}

	movement, err := s.ledger.RecordMovement(ctx, ledger.Entry{
		ItemID:   in.ItemID,
		Type:     in.Type,
		Quantity: in.Quantity,
		UserID:   userID,
		Notes:    in.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.refreshItem(context.WithoutCancel(ctx), in.ItemID)
	return movement, nil
}

// refreshItem replaces the cached item with its committed state. When the
// item cannot be read the cached copy is dropped instead.
func (s *movementService) refreshItem(ctx context.Context, id uuid.UUID) {
	if s.cache == nil || s.items == nil {
		return
	}
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		_ = s.cache.Delete(ctx, cache.ItemKey(id))
		return
	}
	s.cache.SetItem(ctx, item, s.cacheTTL)
}

func (s *movementService) GetMovement(ctx context.Context, id uuid.UUID) (*model.Movement, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *movementService) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Movement, error) {
	return s.repo.ListByItem(ctx, itemID)
}

func (s *movementService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Movement, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *movementService) ListRecent(ctx context.Context, limit int) ([]model.Movement, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
