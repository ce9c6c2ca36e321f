package entity

import (
	"fmt"
	"strconv"
	"time"
)

// RewardType names a family of one-time rewards
type RewardType string

const (
	RewardDaily        RewardType = "daily"
	RewardAchievement  RewardType = "achievement"
	RewardNotification RewardType = "notification"
)

// Claim is a row of the one-time claim ledger; (AccountID, RewardType, RewardKey) is unique
type Claim struct {
	AccountID  uint64
	RewardType RewardType
	RewardKey  string
	Amount     int64
	ClaimedAt  time.Time
}

// DailyRewardKey identifies the daily period containing now. Two claims in the
// same period share a key and collide in the ledger.
func DailyRewardKey(now time.Time, period time.Duration) string {
	return now.UTC().Truncate(period).Format(time.RFC3339)
}

// AchievementRewardKey identifies the reward of one achievement
func AchievementRewardKey(achievementID uint64) string {
	return strconv.FormatUint(achievementID, 10)
}

// NotificationRewardKey identifies the reward attached to one notification
func NotificationRewardKey(notificationID uint64) string {
	return fmt.Sprintf("%d", notificationID)
}
