package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventorySummary aggregates stock across all items.
type InventorySummary struct {
	TotalItems      int64           `json:"total_items"`
	TotalQuantity   int64           `json:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value"`
	CategoriesCount int64           `json:"categories_count"`
	LowStockCount   int64           `json:"low_stock_count"`
	ZeroStockCount  int64           `json:"zero_stock_count"`
}

// CategorySummary aggregates stock per category.
type CategorySummary struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	ItemsCount    int64           `json:"items_count"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// DailyMovementSummary totals the movements recorded on one day.
// NetChange counts additions minus removals; adjustments set absolute
// levels and have no delta of their own.
type DailyMovementSummary struct {
	Date        string `json:"date"`
	Additions   int64  `json:"additions"`
	Removals    int64  `json:"removals"`
	Adjustments int64  `json:"adjustments"`
	NetChange   int64  `json:"net_change"`
}
