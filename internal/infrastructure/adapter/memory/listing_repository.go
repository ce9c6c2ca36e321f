package memory

import (
	"context"
	"slices"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

type listingRepository struct {
	store *Store
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	return r.store.run(ctx, func(st *state) error {
		listing.ID = st.nextListingID
		st.nextListingID++
		listing.Status = entity.ListingActive
		st.listings[listing.ID] = *listing
		return nil
	})
}

func (r *listingRepository) GetByID(ctx context.Context, id uint64) (*entity.Listing, error) {
	var out *entity.Listing
	err := r.store.run(ctx, func(st *state) error {
		l, ok := st.listings[id]
		if !ok {
			return errs.ErrListingNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *listingRepository) CountActiveBySeller(ctx context.Context, sellerID uint64) (int, error) {
	count := 0
	err := r.store.run(ctx, func(st *state) error {
		for _, l := range st.listings {
			if l.SellerID == sellerID && l.Status == entity.ListingActive {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *listingRepository) Transition(ctx context.Context, id uint64, to entity.ListingStatus, buyerID *uint64, now time.Time) error {
	if !to.Terminal() {
		return errs.ErrInvalidRequest
	}
	return r.store.run(ctx, func(st *state) error {
		l, ok := st.listings[id]
		if !ok {
			return errs.ErrListingNotFound
		}
		if l.Status != entity.ListingActive {
			return errs.ErrListingUnavailable
		}
		l.Status = to
		l.BuyerID = buyerID
		l.ClosedAt = &now
		st.listings[id] = l
		return nil
	})
}

func (r *listingRepository) ListActive(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error) {
	var out []entity.Listing
	err := r.store.run(ctx, func(st *state) error {
		for _, l := range st.listings {
			if l.Status != entity.ListingActive {
				continue
			}
			if filter.CardID != 0 && l.CardID != filter.CardID {
				continue
			}
			if filter.SellerID != 0 && l.SellerID != filter.SellerID {
				continue
			}
			if filter.Rarity != "" && st.cards[l.CardID].Rarity != filter.Rarity {
				continue
			}
			out = append(out, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b entity.Listing) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareID(b.ID, a.ID)
	})

	if filter.Offset >= len(out) {
		return []entity.Listing{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}
