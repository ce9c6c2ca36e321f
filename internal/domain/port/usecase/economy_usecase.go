package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// OpeningResult describes an opened booster and the resulting account state
type OpeningResult struct {
	Opening           entity.BoosterOpening
	Cards             []entity.Card
	Balance           int64
	AvailableBoosters int
	NextBoosterAt     *time.Time
}

// SaleResult describes a card sold back to the system
type SaleResult struct {
	CardID    uint64
	Quantity  int
	Proceeds  int64
	Balance   int64
	Remaining int
}

// ClaimResult describes a credited one-time reward
type ClaimResult struct {
	RewardType entity.RewardType
	RewardKey  string
	Amount     int64
	Balance    int64
}

// AccountView is the account state with allotment regeneration applied
type AccountView struct {
	Account           entity.Account
	TimeToNextBooster time.Duration
	DailyAvailableAt  time.Time
}

// EconomyUseCase defines the economy-mutating operations on one account
type EconomyUseCase interface {
	// RegisterAccount creates the account with the starting balance and a full allotment.
	// Registering an existing account returns it unchanged.
	RegisterAccount(ctx context.Context, accountID uint64) (*entity.Account, error)

	// OpenBooster opens a booster paid with one unit of free allotment
	OpenBooster(ctx context.Context, accountID, boosterID uint64) (*OpeningResult, error)

	// BuyBooster opens a booster paid with currency
	BuyBooster(ctx context.Context, accountID, boosterID uint64) (*OpeningResult, error)

	// SellCard sells copies back to the system, always keeping at least one
	SellCard(ctx context.Context, accountID, cardID uint64, quantity int) (*SaleResult, error)

	// ClaimDailyReward credits the daily reward once per period
	ClaimDailyReward(ctx context.Context, accountID uint64) (*ClaimResult, error)

	// ClaimNotificationReward credits the reward attached to a notification once
	ClaimNotificationReward(ctx context.Context, accountID, notificationID uint64) (*ClaimResult, error)

	// GetAccount returns the account with a due allotment regenerated
	GetAccount(ctx context.Context, accountID uint64) (*AccountView, error)

	ListInventory(ctx context.Context, accountID uint64) ([]entity.InventoryItem, error)
	SetFavorite(ctx context.Context, accountID, cardID uint64, favorite bool) error
	ListNotifications(ctx context.Context, accountID uint64) ([]entity.Notification, error)
}
