package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, so a
// unit of work can span several of them.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Items() ItemRepository
	Movements() MovementRepository
	Reports() ReportRepository
	// WithTransaction runs fn in a database transaction. The Store passed to
	// fn is bound to that transaction; returning an error rolls it back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed Store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository          { return NewUserRepository(s.db) }
func (s *store) Categories() CategoryRepository { return NewCategoryRepository(s.db) }
func (s *store) Items() ItemRepository          { return NewItemRepository(s.db) }
func (s *store) Movements() MovementRepository  { return NewMovementRepository(s.db) }
func (s *store) Reports() ReportRepository      { return NewReportRepository(s.db) }

// WithTransaction executes a function within a database transaction.
func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}

func notFound(err, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}
