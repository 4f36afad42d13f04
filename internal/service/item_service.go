package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"invtrack/internal/cache"
	apperrors "invtrack/internal/errors"
	"invtrack/internal/metrics"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

const defaultItemCacheTTL = 5 * time.Minute

// ItemInput carries the writable fields of an item. On update nil fields
// are left alone.
type ItemInput struct {
	Name        *string
	Description *string
	CategoryID  *uuid.UUID
	Quantity    *int
	UnitPrice   *decimal.Decimal
	SKU         *string
	Location    *string
}

// ItemService manages inventory items outside the stock ledger.
type ItemService interface {
	CreateItem(ctx context.Context, in ItemInput) (*model.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	SearchItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error)
	LowStockItems(ctx context.Context, threshold *int) ([]model.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput, actor uuid.UUID) (*model.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type itemService struct {
	store             repository.Store
	cache             *cache.Client
	cacheTTL          time.Duration
	lowStockThreshold int
	metrics           metrics.Recorder
	log               *zap.Logger
}

// ItemServiceOption configures the item service.
type ItemServiceOption func(*itemService)

// WithItemCache caches single item reads for ttl. c may be nil.
func WithItemCache(c *cache.Client, ttl time.Duration) ItemServiceOption {
	return func(s *itemService) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithLowStockThreshold sets the threshold used when a caller gives none.
func WithLowStockThreshold(threshold int) ItemServiceOption {
	return func(s *itemService) {
		s.lowStockThreshold = threshold
	}
}

// WithItemMetrics sets the metrics recorder.
func WithItemMetrics(r metrics.Recorder) ItemServiceOption {
	return func(s *itemService) {
		s.metrics = r
	}
}

// WithItemLogger sets the logger.
func WithItemLogger(l *zap.Logger) ItemServiceOption {
	return func(s *itemService) {
		s.log = l
	}
}

// NewItemService builds an ItemService.
func NewItemService(store repository.Store, opts ...ItemServiceOption) ItemService {
	s := &itemService{
		store:             store,
		cacheTTL:          defaultItemCacheTTL,
		lowStockThreshold: 10,
		metrics:           metrics.Discard,
		log:               zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *itemService) CreateItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	item := &model.Item{}
	if err := applyItemInput(item, in); err != nil {
		return nil, err
	}
	items := s.store.Items()
	if err := items.Create(ctx, item); err != nil {
		return nil, err
	}
	return items.FindByID(ctx, item.ID)
}

// GetItem reads through the cache. Cache failures count as misses.
func (s *itemService) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	if cached, ok := s.cache.GetItem(ctx, id); ok {
		return cached, nil
	}

	item, err := s.store.Items().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetItem(ctx, item, s.cacheTTL)
	return item, nil
}

func (s *itemService) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.store.Items().List(ctx)
}

func (s *itemService) SearchItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	return s.store.Items().Search(ctx, filter)
}

func (s *itemService) LowStockItems(ctx context.Context, threshold *int) ([]model.Item, error) {
	t := s.lowStockThreshold
	if threshold != nil {
		t = *threshold
	}
	return s.store.Items().LowStock(ctx, t)
}

// UpdateItem overwrites the given fields. The item row is locked for the
// read-modify-write, so a movement committing meanwhile is never undone. A
// changed quantity is written directly, leaves no movement behind and is
// reported as a non-ledger change.
func (s *itemService) UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput, actor uuid.UUID) (*model.Item, error) {
	var previous, current int
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		item, err := tx.Items().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous = item.Quantity

		if err := applyItemInput(item, in); err != nil {
			return err
		}
		if err := tx.Items().Update(ctx, item); err != nil {
			return err
		}

		current = item.Quantity
		if current == previous {
			return nil
		}
		return tx.Items().SetQuantity(ctx, id, current, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	if current != previous {
		s.metrics.NonLedgerChange()
		s.log.Warn("item quantity overwritten outside the stock ledger",
			zap.String("item_id", id.String()),
			zap.String("user_id", actor.String()),
			zap.Int("previous_quantity", previous),
			zap.Int("new_quantity", current),
		)
	}

	item, err := s.store.Items().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetItem(ctx, item, s.cacheTTL)
	return item, nil
}

func (s *itemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Items().Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.ItemKey(id))
	return nil
}

func applyItemInput(item *model.Item, in ItemInput) error {
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return apperrors.ErrInvalidQuantity
		}
		item.Quantity = *in.Quantity
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if in.SKU != nil {
		item.SKU = in.SKU
	}
	if in.Location != nil {
		item.Location = in.Location
	}
	return nil
}
