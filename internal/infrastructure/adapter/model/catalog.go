package model

import (
	"time"
)

// Card is a read-only catalog card definition
type Card struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"not null;size:255"`
	Rarity    string `gorm:"not null;size:20;index"`
	Alternate bool   `gorm:"not null;default:false"`
	ScopeID   string `gorm:"not null;default:'';size:64;index"`
	Active    bool   `gorm:"not null;default:true;index"`
}

// TableName specifies the table name for Card
func (Card) TableName() string {
	return "cards"
}

// Booster is a read-only booster pack definition
type Booster struct {
	ID      uint64 `gorm:"primaryKey"`
	Name    string `gorm:"not null;size:255"`
	ScopeID string `gorm:"not null;default:'';size:64"`
	Price   int64  `gorm:"not null;check:chk_boosters_price,price >= 0"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName specifies the table name for Booster
func (Booster) TableName() string {
	return "boosters"
}

// BoosterOpening is the append-only record of one opened booster
type BoosterOpening struct {
	ID        string    `gorm:"primaryKey;size:36"`
	AccountID uint64    `gorm:"not null;index"`
	BoosterID uint64    `gorm:"not null"`
	CardIDs   []uint64  `gorm:"type:jsonb;serializer:json;not null"`
	Source    string    `gorm:"not null;size:20"`
	OpenedAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name for BoosterOpening
func (BoosterOpening) TableName() string {
	return "booster_openings"
}
