package model

import (
	"time"
)

// InventoryEntry holds the quantity of one card owned by one account.
// Rows are kept at quantity zero so first-acquired timestamps survive.
type InventoryEntry struct {
	AccountID       uint64    `gorm:"primaryKey;autoIncrement:false"`
	CardID          uint64    `gorm:"primaryKey;autoIncrement:false"`
	Quantity        int       `gorm:"not null;default:0;check:chk_inventory_quantity,quantity >= 0"`
	Favorite        bool      `gorm:"not null;default:false"`
	FirstAcquiredAt time.Time `gorm:"not null"`
	LastAcquiredAt  time.Time `gorm:"not null"`

	Card Card `gorm:"foreignKey:CardID;references:ID"`
}

// TableName specifies the table name for InventoryEntry
func (InventoryEntry) TableName() string {
	return "inventory"
}
