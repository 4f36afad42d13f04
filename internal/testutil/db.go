// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invtrack/internal/config"
	"invtrack/internal/db"
	"invtrack/internal/model"
)

// NewSQLite opens a migrated SQLite database in a temporary directory
// through db.Open, with the connection settings it applies to SQLite.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:" + filepath.Join(t.TempDir(), "inventory.db"),
	}, zap.NewNop(), "error")
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gormDB, false, zap.NewNop()))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, gormDB *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, gormDB.WithContext(context.Background()).Create(user).Error)
	return user
}

// CreateCategory inserts a category.
func CreateCategory(t *testing.T, gormDB *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name}
	require.NoError(t, gormDB.WithContext(context.Background()).Create(category).Error)
	return category
}

// CreateItem inserts an item with the given stock level and price.
func CreateItem(t *testing.T, gormDB *gorm.DB, categoryID uuid.UUID, name string, quantity int, price string) *model.Item {
	t.Helper()

	item := &model.Item{
		Name:       name,
		CategoryID: categoryID,
		Quantity:   quantity,
		UnitPrice:  decimal.RequireFromString(price),
	}
	require.NoError(t, gormDB.WithContext(context.Background()).Create(item).Error)
	return item
}

// Quantity reads the stored stock level of an item.
func Quantity(t *testing.T, gormDB *gorm.DB, itemID uuid.UUID) int {
	t.Helper()

	var item model.Item
	require.NoError(t, gormDB.Where("id = ?", itemID).First(&item).Error)
	return item.Quantity
}

// MovementCount counts the movements recorded for an item.
func MovementCount(t *testing.T, gormDB *gorm.DB, itemID uuid.UUID) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gormDB.Model(&model.Movement{}).Where("item_id = ?", itemID).Count(&n).Error)
	return n
}
