package model

import (
	"time"
)

// Listing is a fixed-price marketplace offer for one card copy
type Listing struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	SellerID  uint64    `gorm:"not null;index"`
	CardID    uint64    `gorm:"not null;index"`
	Price     int64     `gorm:"not null;check:chk_listings_price,price > 0"`
	Status    string    `gorm:"not null;size:20;index"`
	BuyerID   *uint64   `gorm:"index"`
	CreatedAt time.Time `gorm:"not null"`
	ClosedAt  *time.Time

	Card Card `gorm:"foreignKey:CardID;references:ID"`
}

// TableName specifies the table name for Listing
func (Listing) TableName() string {
	return "listings"
}
