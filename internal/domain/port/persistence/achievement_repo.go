package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// AchievementRepository stores definitions and per-account progress
type AchievementRepository interface {
	ListDefinitions(ctx context.Context) ([]entity.Achievement, error)

	// GetDefinition returns ErrAchievementNotFound when the achievement doesn't exist
	GetDefinition(ctx context.Context, id uint64) (*entity.Achievement, error)

	// GetProgress returns zero progress when nothing was recorded yet
	GetProgress(ctx context.Context, accountID, achievementID uint64) (*entity.AchievementProgress, error)

	ListProgress(ctx context.Context, accountID uint64) ([]entity.AchievementProgress, error)

	// RaiseProgress stores max(existing, value) and sets completed-at the first
	// time progress reaches threshold
	RaiseProgress(ctx context.Context, accountID, achievementID uint64, value, threshold int, now time.Time) error

	// MarkClaimed flips claimed from false to true for completed progress
	//
	// Possible errors:
	// - ErrAlreadyClaimed: If the progress row is already claimed or incomplete
	MarkClaimed(ctx context.Context, accountID, achievementID uint64, threshold int, now time.Time) error
}

// ClaimRepository is the one-time claim ledger
type ClaimRepository interface {
	// Insert returns ErrAlreadyClaimed when (account, reward type, reward key) exists
	Insert(ctx context.Context, claim *entity.Claim) error
	Exists(ctx context.Context, accountID uint64, rewardType entity.RewardType, rewardKey string) (bool, error)
}
