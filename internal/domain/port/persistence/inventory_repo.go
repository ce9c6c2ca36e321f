package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// InventoryRepository stores card quantities per account
type InventoryRepository interface {
	// Get returns ErrNotOwned when the account never acquired the card
	Get(ctx context.Context, accountID, cardID uint64) (*entity.InventoryEntry, error)

	// Add creates the entry on first acquisition and increments it afterwards
	Add(ctx context.Context, accountID, cardID uint64, quantity int, now time.Time) error

	// Remove decrements the quantity when at least quantity+keep copies are held
	//
	// Possible errors:
	// - ErrNotOwned: If fewer than quantity+keep copies are held
	Remove(ctx context.Context, accountID, cardID uint64, quantity, keep int) error

	// SetFavorite returns ErrNotOwned when no copy is held
	SetFavorite(ctx context.Context, accountID, cardID uint64, favorite bool) error

	// ListByAccount returns held cards (quantity > 0) joined with their definitions
	ListByAccount(ctx context.Context, accountID uint64) ([]entity.InventoryItem, error)

	// CountDistinct counts distinct held cards
	CountDistinct(ctx context.Context, accountID uint64) (int, error)

	// CountDistinctInScope counts distinct held cards belonging to one pack
	CountDistinctInScope(ctx context.Context, accountID uint64, scopeID string) (int, error)
}
