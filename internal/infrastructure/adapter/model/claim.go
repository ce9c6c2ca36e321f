package model

import (
	"time"
)

// Claim is one row of the one-time reward ledger
type Claim struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	AccountID  uint64    `gorm:"not null;uniqueIndex:idx_claims_unique,priority:1"`
	RewardType string    `gorm:"not null;size:20;uniqueIndex:idx_claims_unique,priority:2"`
	RewardKey  string    `gorm:"not null;size:64;uniqueIndex:idx_claims_unique,priority:3"`
	Amount     int64     `gorm:"not null"`
	ClaimedAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name for Claim
func (Claim) TableName() string {
	return "claims"
}

// Notification is a message to an account, optionally carrying a reward
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	AccountID uint64    `gorm:"not null;index"`
	Title     string    `gorm:"not null;size:255"`
	Reward    int64     `gorm:"not null;default:0;check:chk_notifications_reward,reward >= 0"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
