package model

import (
	"time"
)

// Achievement is a read-only achievement definition
type Achievement struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"not null;size:255"`
	Kind      string `gorm:"not null;size:40"`
	ScopeID   string `gorm:"not null;default:'';size:64"`
	Threshold int    `gorm:"not null;check:chk_achievements_threshold,threshold > 0"`
	Reward    int64  `gorm:"not null;default:0"`
	Active    bool   `gorm:"not null;default:true"`
}

// TableName specifies the table name for Achievement
func (Achievement) TableName() string {
	return "achievements"
}

// AchievementProgress is the monotonic progress of one account on one achievement
type AchievementProgress struct {
	AccountID     uint64 `gorm:"primaryKey;autoIncrement:false"`
	AchievementID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Progress      int    `gorm:"not null;default:0"`
	CompletedAt   *time.Time
	Claimed       bool `gorm:"not null;default:false"`
	ClaimedAt     *time.Time
}

// TableName specifies the table name for AchievementProgress
func (AchievementProgress) TableName() string {
	return "achievement_progress"
}
