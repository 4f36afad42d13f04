package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementType selects how a movement's quantity affects stock.
type MovementType string

const (
	MovementAddition   MovementType = "addition"
	MovementRemoval    MovementType = "removal"
	MovementAdjustment MovementType = "adjustment"
)

// ParseMovementType converts a case-insensitive name into a MovementType.
func ParseMovementType(s string) (MovementType, error) {
	switch t := MovementType(strings.ToLower(strings.TrimSpace(s))); t {
	case MovementAddition, MovementRemoval, MovementAdjustment:
		return t, nil
	default:
		return "", fmt.Errorf("unknown movement type %q", s)
	}
}

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementAddition, MovementRemoval, MovementAdjustment:
		return true
	}
	return false
}

// Apply returns the stock level after a movement of quantity is applied to
// current. Removals are not floored at zero.
func (t MovementType) Apply(current, quantity int) int {
	switch t {
	case MovementAddition:
		return current + quantity
	case MovementRemoval:
		return current - quantity
	case MovementAdjustment:
		return quantity
	default:
		return current
	}
}

// Movement is an append-only stock movement record.
type Movement struct {
	ID              uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	ItemID          uuid.UUID    `json:"item_id" gorm:"type:char(36);not null;index"`
	TransactionType MovementType `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	Quantity        int          `json:"quantity" gorm:"not null"`
	UserID          uuid.UUID    `json:"user_id" gorm:"type:char(36);not null;index"`
	Notes           *string      `json:"notes,omitempty" gorm:"type:text"`
	TransactionDate time.Time    `json:"transaction_date" gorm:"not null;index"`

	// Relations
	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName keeps the table name used by existing deployments.
func (Movement) TableName() string { return "inventory_transactions" }

// BeforeCreate sets UUID and transaction date before creating the record.
func (m *Movement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.TransactionDate.IsZero() {
		m.TransactionDate = time.Now().UTC()
	}
	return nil
}
