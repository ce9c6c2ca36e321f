package usecase

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// PurchaseResult describes a completed marketplace purchase
type PurchaseResult struct {
	Listing      entity.Listing
	BuyerBalance int64
}

// MarketplaceUseCase defines the listing lifecycle
type MarketplaceUseCase interface {
	Create(ctx context.Context, sellerID, cardID uint64, price int64) (*entity.Listing, error)
	Purchase(ctx context.Context, listingID, buyerID uint64) (*PurchaseResult, error)
	Cancel(ctx context.Context, listingID, sellerID uint64) (*entity.Listing, error)
	ListActive(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error)
}
