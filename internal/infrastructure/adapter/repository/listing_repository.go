package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/model"
)

// ListingRepository stores marketplace listings
type ListingRepository struct {
	base
}

// NewListingRepository creates a new ListingRepository instance
func NewListingRepository(db *gorm.DB, logger coreport.Logger) *ListingRepository {
	return &ListingRepository{base: newBase(db, logger)}
}

var _ persistence.ListingRepository = (*ListingRepository)(nil)

func listingToEntity(m *model.Listing) entity.Listing {
	return entity.Listing{
		ID:        m.ID,
		SellerID:  m.SellerID,
		CardID:    m.CardID,
		Price:     m.Price,
		Status:    entity.ListingStatus(m.Status),
		BuyerID:   m.BuyerID,
		CreatedAt: m.CreatedAt,
		ClosedAt:  m.ClosedAt,
	}
}

// Create stores an active listing and assigns its ID
func (r *ListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	m := model.Listing{
		SellerID:  listing.SellerID,
		CardID:    listing.CardID,
		Price:     listing.Price,
		Status:    string(entity.ListingActive),
		CreatedAt: listing.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit("Card").Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating listing", err, nil, nil, map[string]any{
			"seller_id": listing.SellerID,
			"card_id":   listing.CardID,
		})
	}
	listing.ID = m.ID
	listing.Status = entity.ListingActive
	return nil
}

// GetByID retrieves a listing by ID
func (r *ListingRepository) GetByID(ctx context.Context, id uint64) (*entity.Listing, error) {
	var m model.Listing
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting listing", err, errs.ErrListingNotFound, nil, map[string]any{"listing_id": id})
	}
	l := listingToEntity(&m)
	return &l, nil
}

// CountActiveBySeller counts the active listings of one seller
func (r *ListingRepository) CountActiveBySeller(ctx context.Context, sellerID uint64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("seller_id = ? AND status = ?", sellerID, string(entity.ListingActive)).
		Count(&count).Error
	if err != nil {
		return 0, r.handleDatabaseError("counting listings", err, nil, nil, map[string]any{"seller_id": sellerID})
	}
	return int(count), nil
}

// Transition moves an active listing to a terminal status exactly once
func (r *ListingRepository) Transition(ctx context.Context, id uint64, to entity.ListingStatus, buyerID *uint64, now time.Time) error {
	if !to.Terminal() {
		return errs.ErrInvalidRequest
	}
	result := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("id = ? AND status = ?", id, string(entity.ListingActive)).
		Updates(map[string]any{
			"status":    string(to),
			"buyer_id":  buyerID,
			"closed_at": now,
		})
	if result.Error != nil {
		return r.handleDatabaseError("transitioning listing", result.Error, nil, nil, map[string]any{
			"listing_id": id,
			"status":     string(to),
		})
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Listing{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return r.handleDatabaseError("checking listing", err, nil, nil, map[string]any{"listing_id": id})
	}
	if count == 0 {
		return errs.ErrListingNotFound
	}
	return errs.ErrListingUnavailable
}

// ListActive browses active listings, newest first
func (r *ListingRepository) ListActive(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error) {
	query := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("listings.status = ?", string(entity.ListingActive))
	if filter.CardID != 0 {
		query = query.Where("listings.card_id = ?", filter.CardID)
	}
	if filter.SellerID != 0 {
		query = query.Where("listings.seller_id = ?", filter.SellerID)
	}
	if filter.Rarity != "" {
		query = query.Joins("JOIN cards ON cards.id = listings.card_id").
			Where("cards.rarity = ?", string(filter.Rarity))
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []model.Listing
	if err := query.Order("listings.created_at DESC, listings.id DESC").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("listing active listings", err, nil, nil, nil)
	}
	out := make([]entity.Listing, 0, len(rows))
	for i := range rows {
		out = append(out, listingToEntity(&rows[i]))
	}
	return out, nil
}
