package usecase

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// ProgressTracker is notified after booster-derived actions commit.
// Failures are handled by the tracker and never reach the caller.
type ProgressTracker interface {
	AfterBoosterOpened(ctx context.Context, accountID uint64, booster *entity.Booster)
}

// AchievementUseCase defines achievement progress and reward operations
type AchievementUseCase interface {
	ProgressTracker

	// Recompute refreshes every active achievement of the account from authoritative aggregates
	Recompute(ctx context.Context, accountID uint64, scopeID string) error

	// Claim credits the reward of a completed, unclaimed achievement
	Claim(ctx context.Context, accountID, achievementID uint64) (*ClaimResult, error)

	ListProgress(ctx context.Context, accountID uint64) ([]entity.AchievementStatus, error)
}
