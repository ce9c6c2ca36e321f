package entity

import "time"

// InventoryEntry is the quantity of one card held by one account
type InventoryEntry struct {
	AccountID       uint64
	CardID          uint64
	Quantity        int
	Favorite        bool
	FirstAcquiredAt time.Time
	LastAcquiredAt  time.Time
}

// InventoryItem joins an inventory entry with its card definition for display
type InventoryItem struct {
	InventoryEntry
	Card Card
}
