package persistence

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// CardRepository reads the card catalog
type CardRepository interface {
	// GetByID returns ErrCardNotFound when the card doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.Card, error)
	// ListActive returns every active card
	ListActive(ctx context.Context) ([]entity.Card, error)
}

// BoosterRepository reads booster definitions and appends opening records
type BoosterRepository interface {
	// GetByID returns ErrBoosterNotFound when the booster doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.Booster, error)
	RecordOpening(ctx context.Context, opening *entity.BoosterOpening) error
	CountOpenings(ctx context.Context, accountID uint64) (int, error)
}

// NotificationRepository reads account notifications
type NotificationRepository interface {
	// GetByID returns ErrNotificationNotFound when the notification doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.Notification, error)
	ListByAccount(ctx context.Context, accountID uint64) ([]entity.Notification, error)
	Create(ctx context.Context, notification *entity.Notification) error
}
