package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
	"invtrack/internal/testutil"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestItemRepository_CRUD(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	category := testutil.CreateCategory(t, db, "Tools")

	item := &model.Item{
		Name:       "Hammer",
		CategoryID: category.ID,
		Quantity:   12,
		UnitPrice:  decimal.RequireFromString("9.99"),
		SKU:        strPtr("HAM-1"),
	}
	require.NoError(t, repo.Create(ctx, item))
	assert.NotEqual(t, uuid.Nil, item.ID)

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", found.Name)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Tools", found.Category.Name)
	assert.True(t, decimal.RequireFromString("9.99").Equal(found.UnitPrice))

	t.Run("duplicate sku", func(t *testing.T) {
		dup := &model.Item{Name: "Other", CategoryID: category.ID, SKU: strPtr("HAM-1")}
		assert.ErrorIs(t, repo.Create(ctx, dup), apperrors.ErrDuplicateSKU)
	})

	t.Run("unknown category", func(t *testing.T) {
		orphan := &model.Item{Name: "Orphan", CategoryID: uuid.New()}
		assert.ErrorIs(t, repo.Create(ctx, orphan), apperrors.ErrInvalidCategoryReference)
	})

	t.Run("update keeps quantity written after the read", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		require.NoError(t, repo.SetQuantity(ctx, item.ID, 40, time.Now().UTC()))

		stale.Location = strPtr("Aisle 4")
		require.NoError(t, repo.Update(ctx, stale))

		assert.Equal(t, 40, testutil.Quantity(t, db, item.ID))
		updated, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.Location)
		assert.Equal(t, "Aisle 4", *updated.Location)
	})

	t.Run("update missing item", func(t *testing.T) {
		missing := &model.Item{ID: uuid.New(), Name: "Ghost", CategoryID: category.ID}
		assert.ErrorIs(t, repo.Update(ctx, missing), apperrors.ErrItemNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, item.ID))
		_, err := repo.FindByID(ctx, item.ID)
		assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, item.ID), apperrors.ErrItemNotFound)
	})
}

func TestItemRepository_SetQuantity(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	category := testutil.CreateCategory(t, db, "Parts")
	item := testutil.CreateItem(t, db, category.ID, "Bolt", 50, "0.10")

	require.NoError(t, repo.SetQuantity(ctx, item.ID, 30, time.Now()))
	assert.Equal(t, 30, testutil.Quantity(t, db, item.ID))

	assert.ErrorIs(t, repo.SetQuantity(ctx, uuid.New(), 1, time.Now()), apperrors.ErrNoEffect)
}

func TestItemRepository_Search(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	tools := testutil.CreateCategory(t, db, "Tools")
	parts := testutil.CreateCategory(t, db, "Parts")

	hammer := testutil.CreateItem(t, db, tools.ID, "Claw Hammer", 5, "19.50")
	testutil.CreateItem(t, db, tools.ID, "Screwdriver", 40, "4.00")
	testutil.CreateItem(t, db, parts.ID, "Hex Bolt", 0, "0.20")

	tests := []struct {
		name   string
		filter model.ItemFilter
		want   []string
	}{
		{"no filter", model.ItemFilter{}, []string{"Claw Hammer", "Hex Bolt", "Screwdriver"}},
		{"category", model.ItemFilter{CategoryID: &parts.ID}, []string{"Hex Bolt"}},
		{"quantity range", model.ItemFilter{MinQuantity: intPtr(1), MaxQuantity: intPtr(10)}, []string{"Claw Hammer"}},
		{"text is case-insensitive", model.ItemFilter{Query: strPtr("HAMMER")}, []string{"Claw Hammer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.Search(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(items))
			for _, it := range items {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	low, err := repo.LowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Hex Bolt", low[0].Name)
	assert.Equal(t, hammer.ID, low[1].ID)
}

func TestCategoryRepository(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	category := &model.Category{Name: "Electronics", Description: strPtr("Cables and chargers")}
	require.NoError(t, repo.Create(ctx, category))
	assert.ErrorIs(t, repo.Create(ctx, &model.Category{Name: "Electronics"}), apperrors.ErrDuplicateCategory)

	found, err := repo.Search(ctx, "charger")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, category.ID, found[0].ID)

	testutil.CreateItem(t, db, category.ID, "USB cable", 1, "2.00")
	assert.ErrorIs(t, repo.Delete(ctx, category.ID), apperrors.ErrCategoryInUse)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), apperrors.ErrCategoryNotFound)
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: model.RoleManager}
	require.NoError(t, repo.Create(ctx, user))

	dup := &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "hash", Role: model.RoleUser}
	assert.ErrorIs(t, repo.Create(ctx, dup), apperrors.ErrDuplicateUser)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, found.Role)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	found.Role = model.RoleAdmin
	require.NoError(t, repo.Update(ctx, found))
	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, reloaded.Role)
}

func TestMovementRepository(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewMovementRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "clerk", model.RoleUser)
	category := testutil.CreateCategory(t, db, "Parts")
	item := testutil.CreateItem(t, db, category.ID, "Washer", 0, "0.05")

	first := &model.Movement{ItemID: item.ID, TransactionType: model.MovementAddition, Quantity: 10, UserID: user.ID,
		TransactionDate: time.Now().UTC().Add(-time.Minute)}
	second := &model.Movement{ItemID: item.ID, TransactionType: model.MovementRemoval, Quantity: 4, UserID: user.ID}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("invalid reference", func(t *testing.T) {
		bad := &model.Movement{ItemID: uuid.New(), TransactionType: model.MovementAddition, Quantity: 1, UserID: user.ID}
		assert.ErrorIs(t, repo.Create(ctx, bad), apperrors.ErrInvalidReference)
	})

	byItem, err := repo.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	assert.Equal(t, second.ID, byItem[0].ID)

	recent, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second.ID, recent[0].ID)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Item)
	require.NotNil(t, got.User)
	assert.Equal(t, "clerk", got.User.Username)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrMovementNotFound)

	assert.ErrorIs(t, NewItemRepository(db).Delete(ctx, item.ID), apperrors.ErrItemInUse)
}

func TestReportRepository(t *testing.T) {
	db := testutil.NewSQLite(t)
	reports := NewReportRepository(db)
	movements := NewMovementRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "clerk", model.RoleUser)
	tools := testutil.CreateCategory(t, db, "Tools")
	testutil.CreateCategory(t, db, "Empty")
	saw := testutil.CreateItem(t, db, tools.ID, "Saw", 4, "10.00")
	testutil.CreateItem(t, db, tools.ID, "Drill", 0, "50.00")
	testutil.CreateItem(t, db, tools.ID, "Tape", 20, "1.50")

	summary, err := reports.InventorySummary(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalItems)
	assert.Equal(t, int64(24), summary.TotalQuantity)
	assert.True(t, decimal.NewFromInt(70).Equal(summary.TotalValue), summary.TotalValue.String())
	assert.Equal(t, int64(2), summary.CategoriesCount)
	assert.Equal(t, int64(1), summary.LowStockCount)
	assert.Equal(t, int64(1), summary.ZeroStockCount)

	byCategory, err := reports.CategorySummaries(ctx)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "Empty", byCategory[0].Name)
	assert.Equal(t, int64(0), byCategory[0].ItemsCount)
	assert.Equal(t, int64(3), byCategory[1].ItemsCount)
	assert.Equal(t, int64(24), byCategory[1].TotalQuantity)

	day := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	for _, m := range []model.Movement{
		{TransactionType: model.MovementAddition, Quantity: 10, TransactionDate: day},
		{TransactionType: model.MovementRemoval, Quantity: 3, TransactionDate: day.Add(2 * time.Hour)},
		{TransactionType: model.MovementAdjustment, Quantity: 7, TransactionDate: day.Add(3 * time.Hour)},
		{TransactionType: model.MovementAddition, Quantity: 5, TransactionDate: day.AddDate(0, 0, 1)},
		{TransactionType: model.MovementAddition, Quantity: 99, TransactionDate: day.AddDate(0, 0, 5)},
	} {
		m := m
		m.ItemID = saw.ID
		m.UserID = user.ID
		require.NoError(t, movements.Create(ctx, &m))
	}

	history, err := reports.MovementHistory(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.DailyMovementSummary{Date: "2026-03-14", Additions: 10, Removals: 3, Adjustments: 7, NetChange: 7}, history[0])
	assert.Equal(t, model.DailyMovementSummary{Date: "2026-03-15", Additions: 5, NetChange: 5}, history[1])
}

func TestStore_WithTransactionRollsBack(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := NewStore(db)
	ctx := context.Background()
	category := testutil.CreateCategory(t, db, "Parts")
	item := testutil.CreateItem(t, db, category.ID, "Nut", 8, "0.02")

	err := s.WithTransaction(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Items().SetQuantity(ctx, item.ID, 100, time.Now()); err != nil {
			return err
		}
		return apperrors.ErrNoEffect
	})
	assert.ErrorIs(t, err, apperrors.ErrNoEffect)
	assert.Equal(t, 8, testutil.Quantity(t, db, item.ID))
}
