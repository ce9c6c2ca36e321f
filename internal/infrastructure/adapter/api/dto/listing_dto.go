package dto

import (
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

// CreateListingRequest represents the API request for listing a card copy
type CreateListingRequest struct {
	CardID uint64 `json:"cardId" binding:"required"`
	Price  int64  `json:"price" binding:"required,min=1"`
}

// ListingQuery carries the browse filters of GET /listings
type ListingQuery struct {
	CardID   uint64 `form:"cardId"`
	Rarity   string `form:"rarity"`
	SellerID uint64 `form:"sellerId"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1"`
}

// ListingResponse represents one listing
type ListingResponse struct {
	ListingID uint64     `json:"listingId"`
	SellerID  uint64     `json:"sellerId"`
	CardID    uint64     `json:"cardId"`
	Price     int64      `json:"price"`
	Status    string     `json:"status"`
	BuyerID   *uint64    `json:"buyerId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

// NewListingResponse converts a listing
func NewListingResponse(listing *entity.Listing) ListingResponse {
	return ListingResponse{
		ListingID: listing.ID,
		SellerID:  listing.SellerID,
		CardID:    listing.CardID,
		Price:     listing.Price,
		Status:    string(listing.Status),
		BuyerID:   listing.BuyerID,
		CreatedAt: listing.CreatedAt,
		ClosedAt:  listing.ClosedAt,
	}
}

// ListingPageResponse is one page of active listings
type ListingPageResponse struct {
	Listings []ListingResponse `json:"listings"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// NewListingPageResponse converts a page of listings
func NewListingPageResponse(listings []entity.Listing, page, pageSize int) ListingPageResponse {
	resp := ListingPageResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Page:     page,
		PageSize: pageSize,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, NewListingResponse(&listings[i]))
	}
	return resp
}

// PurchaseResponse represents a completed purchase
type PurchaseResponse struct {
	Listing      ListingResponse `json:"listing"`
	BuyerBalance int64           `json:"buyerBalance"`
}

// NewPurchaseResponse converts a purchase result
func NewPurchaseResponse(result *usecase.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{
		Listing:      NewListingResponse(&result.Listing),
		BuyerBalance: result.BuyerBalance,
	}
}
