package persistence

import (
	"context"
)

// UnitOfWork coordinates one serializable transaction across every repository.
// Repositories obtained with a transactional context participate in that transaction;
// with a plain context they run against the store directly.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	GetAccountRepository(ctx context.Context) AccountRepository
	GetCardRepository(ctx context.Context) CardRepository
	GetBoosterRepository(ctx context.Context) BoosterRepository
	GetInventoryRepository(ctx context.Context) InventoryRepository
	GetListingRepository(ctx context.Context) ListingRepository
	GetAchievementRepository(ctx context.Context) AchievementRepository
	GetClaimRepository(ctx context.Context) ClaimRepository
	GetNotificationRepository(ctx context.Context) NotificationRepository
}
