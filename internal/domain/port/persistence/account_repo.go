package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// AccountRepository mutates balances and allotments through conditional updates.
// A conditional update that matches no row fails with the typed error listed
// for the method and changes nothing.
type AccountRepository interface {
	// GetByID retrieves an account by ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrStorageUnavailable: If the store cannot be reached
	GetByID(ctx context.Context, id uint64) (*entity.Account, error)

	// Create stores a new account
	//
	// Possible errors:
	// - ErrInvalidRequest: If an account with the same ID already exists
	Create(ctx context.Context, account *entity.Account) error

	// DebitBalance subtracts amount when balance >= amount
	//
	// Possible errors:
	// - ErrInsufficientFunds: If the balance is lower than amount (as *InsufficientFundsError)
	// - ErrAccountNotFound: If the account doesn't exist
	DebitBalance(ctx context.Context, id uint64, amount int64) error

	// CreditBalance adds amount when the result stays <= max
	//
	// Possible errors:
	// - ErrLimitExceeded: If the credit would exceed max
	// - ErrAccountNotFound: If the account doesn't exist
	CreditBalance(ctx context.Context, id uint64, amount, max int64) error

	// ConsumeBooster decrements the allotment when it is above zero.
	// When the allotment reaches zero, next-booster-at is set to regenAt.
	//
	// Possible errors:
	// - ErrInsufficientAllotment: If no booster is available
	ConsumeBooster(ctx context.Context, id uint64, regenAt time.Time) error

	// RefillBoosters restores a depleted allotment to full once next-booster-at has passed.
	// Reports whether a refill happened.
	RefillBoosters(ctx context.Context, id uint64, now time.Time, allotment int) (bool, error)

	// MarkDailyClaimed records a daily claim when the cooldown has elapsed
	//
	// Possible errors:
	// - ErrDailyCooldown: If the previous claim is more recent than cooldown
	MarkDailyClaimed(ctx context.Context, id uint64, now time.Time, cooldown time.Duration) error

	// TotalBalance sums the balance of every account
	TotalBalance(ctx context.Context) (int64, error)
}
