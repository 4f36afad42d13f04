package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a stocked inventory item.
// Quantity changes go through the stock ledger; the item update endpoint can
// still overwrite it directly, and such writes leave no movement behind.
type Item struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	CategoryID  uuid.UUID       `json:"category_id" gorm:"type:char(36);not null;index"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);not null;default:0"`
	SKU         *string         `json:"sku,omitempty" gorm:"column:sku;uniqueIndex;size:100"`
	Location    *string         `json:"location,omitempty" gorm:"size:255"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName keeps the table name used by existing deployments.
func (Item) TableName() string { return "inventory_items" }

// BeforeCreate sets UUID before creating the record.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ItemFilter narrows item searches. Nil fields are ignored.
type ItemFilter struct {
	CategoryID  *uuid.UUID
	MinQuantity *int
	MaxQuantity *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Location    *string
	Query       *string
}
