package entity

import "time"

// ListingStatus is the lifecycle state of a marketplace listing
type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingSold      ListingStatus = "sold"
	ListingCancelled ListingStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s
func (s ListingStatus) Terminal() bool {
	return s == ListingSold || s == ListingCancelled
}

// Listing is a fixed-price offer of one copy of a card
type Listing struct {
	ID        uint64
	SellerID  uint64
	CardID    uint64
	Price     int64
	Status    ListingStatus
	BuyerID   *uint64 // Set once sold
	CreatedAt time.Time
	ClosedAt  *time.Time // Sold or cancelled time
}

// ListingFilter narrows an active listing browse
type ListingFilter struct {
	CardID   uint64 // 0 means any card
	Rarity   Rarity // empty means any tier
	SellerID uint64 // 0 means any seller
	Limit    int
	Offset   int
}
