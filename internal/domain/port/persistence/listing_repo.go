package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// ListingRepository stores marketplace listings
type ListingRepository interface {
	// Create stores an active listing and assigns its ID
	Create(ctx context.Context, listing *entity.Listing) error

	// GetByID returns ErrListingNotFound when the listing doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.Listing, error)

	CountActiveBySeller(ctx context.Context, sellerID uint64) (int, error)

	// Transition moves an active listing to a terminal status exactly once
	//
	// Possible errors:
	// - ErrListingUnavailable: If the listing is no longer active
	Transition(ctx context.Context, id uint64, to entity.ListingStatus, buyerID *uint64, now time.Time) error

	// ListActive browses active listings, newest first
	ListActive(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error)
}
