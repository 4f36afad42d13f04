package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invtrack/internal/ledger"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

// itemStore is a Store backed by an item repository mock. Transactions run
// inline on the same mock.
type itemStore struct {
	repository.Store
	items *MockItemRepository
}

func (s *itemStore) Items() repository.ItemRepository { return s.items }

func (s *itemStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, s)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockItemRepository is a mock implementation of ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int, at time.Time) error {
	args := m.Called(ctx, id, quantity, at)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemRepository) Search(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemRepository) LowStock(ctx context.Context, threshold int) ([]model.Item, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *model.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movement), args.Error(1)
}

func (m *MockMovementRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.Movement, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]model.Movement), args.Error(1)
}

func (m *MockMovementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Movement, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Movement), args.Error(1)
}

func (m *MockMovementRepository) ListRecent(ctx context.Context, limit int) ([]model.Movement, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Movement), args.Error(1)
}

// MockLedger is a mock implementation of Ledger.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordMovement(ctx context.Context, entry ledger.Entry) (*model.Movement, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movement), args.Error(1)
}

// MockReportRepository is a mock implementation of ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) InventorySummary(ctx context.Context, lowStockThreshold int) (*model.InventorySummary, error) {
	args := m.Called(ctx, lowStockThreshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventorySummary), args.Error(1)
}

func (m *MockReportRepository) CategorySummaries(ctx context.Context) ([]model.CategorySummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.CategorySummary), args.Error(1)
}

func (m *MockReportRepository) MovementHistory(ctx context.Context, from, to time.Time) ([]model.DailyMovementSummary, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]model.DailyMovementSummary), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Search(ctx context.Context, query string) ([]model.Category, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.Category), args.Error(1)
}
