package model

import (
	"time"
)

// Account represents the database model for player accounts
type Account struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement:false"`
	Balance           int64  `gorm:"not null;default:0;check:chk_accounts_balance,balance >= 0"`
	AvailableBoosters int    `gorm:"not null;default:0;check:chk_accounts_allotment,available_boosters >= 0"`
	NextBoosterAt     *time.Time
	LastDailyClaimAt  *time.Time
	IsAdmin           bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
