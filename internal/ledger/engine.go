// Package ledger records stock movements. Each movement and the quantity
// change it causes are written in one transaction, so an item's stock level
// always equals the fold of its movement history.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "invtrack/internal/errors"
	"invtrack/internal/metrics"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

// DefaultTimeout bounds a unit of work when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Entry describes a movement to record.
type Entry struct {
	ItemID   uuid.UUID
	Type     model.MovementType
	Quantity int
	UserID   uuid.UUID
	Notes    *string
}

// Engine executes stock movements against a Store.
type Engine struct {
	store   repository.Store
	timeout time.Duration
	metrics metrics.Recorder
	log     *zap.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds each unit of work.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClock overrides the time source used for transaction dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an Engine.
func NewEngine(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		timeout: DefaultTimeout,
		metrics: metrics.Discard,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecordMovement appends a movement and applies it to the item's quantity,
// or does neither. The returned movement carries its id and the item as
// committed.
//
// The item row is locked before the movement is inserted so that concurrent
// movements on one item queue on the lock instead of deadlocking on the
// foreign key check. The unit runs detached from ctx's cancellation but
// bounded by the engine timeout: a client that goes away cannot abort it
// halfway.
func (e *Engine) RecordMovement(ctx context.Context, entry Entry) (*model.Movement, error) {
	if entry.Quantity < 0 {
		e.metrics.MovementFailed("invalid_quantity")
		return nil, apperrors.ErrInvalidQuantity
	}
	if !entry.Type.Valid() {
		e.metrics.MovementFailed("invalid_type")
		return nil, apperrors.ErrInvalidMovementType
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	start := time.Now()
	movement := &model.Movement{
		ItemID:          entry.ItemID,
		TransactionType: entry.Type,
		Quantity:        entry.Quantity,
		UserID:          entry.UserID,
		Notes:           entry.Notes,
	}

	var item *model.Item
	err := e.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		locked, err := tx.Items().FindByIDForUpdate(ctx, entry.ItemID)
		if err != nil {
			return fmt.Errorf("lock item: %w", err)
		}
		// stamped under the lock so updated_at follows commit order
		movement.TransactionDate = e.now().UTC()

		if err := tx.Movements().Create(ctx, movement); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}

		locked.Quantity = entry.Type.Apply(locked.Quantity, entry.Quantity)
		locked.UpdatedAt = movement.TransactionDate
		if err := tx.Items().SetQuantity(ctx, locked.ID, locked.Quantity, locked.UpdatedAt); err != nil {
			return fmt.Errorf("update quantity: %w", err)
		}

		item = locked
		return nil
	})
	if err != nil {
		e.metrics.MovementFailed(failureReason(err))
		e.log.Warn("stock movement rolled back",
			zap.String("item_id", entry.ItemID.String()),
			zap.String("type", string(entry.Type)),
			zap.Int("quantity", entry.Quantity),
			zap.Error(err),
		)
		return nil, err
	}

	elapsed := time.Since(start)
	e.metrics.MovementRecorded(string(entry.Type), elapsed)
	e.log.Info("stock movement recorded",
		zap.String("movement_id", movement.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("type", string(entry.Type)),
		zap.Int("quantity", entry.Quantity),
		zap.Int("new_quantity", item.Quantity),
		zap.Duration("elapsed", elapsed),
	)

	movement.Item = item
	return movement, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, apperrors.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, apperrors.ErrNoEffect):
		return "no_effect"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "store_error"
	}
}
