package marketplace

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/economy"
)

const (
	opCreateListing   = "create_listing"
	opPurchaseListing = "purchase_listing"
	opCancelListing   = "cancel_listing"
)

// Service implements usecase.MarketplaceUseCase. A listing offers one copy;
// the copy stays in the seller's inventory until the listing sells.
type Service struct {
	engine *economy.Engine
	uow    persistence.UnitOfWork
	gate   usecase.Gatekeeper
	audit  coreport.AuditSink
	clock  coreport.TimeProvider
	logger coreport.Logger
	cfg    Config
}

var _ usecase.MarketplaceUseCase = (*Service)(nil)

// NewService creates the marketplace
func NewService(
	engine *economy.Engine,
	gate usecase.Gatekeeper,
	audit coreport.AuditSink,
	clock coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) *Service {
	return &Service{
		engine: engine,
		uow:    engine.UnitOfWork(),
		gate:   gate,
		audit:  audit,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
	}
}

// Create lists one copy of a card. The seller must hold at least two copies.
func (s *Service) Create(ctx context.Context, sellerID, cardID uint64, price int64) (*entity.Listing, error) {
	if err := entity.ValidateAmount(price, s.cfg.MaxListingPrice); err != nil {
		return nil, err
	}
	if err := s.gate.Check(ctx, sellerID, usecase.ActionCreateListing); err != nil {
		return nil, err
	}

	var listing *entity.Listing
	err := s.engine.Execute(ctx, opCreateListing, sellerID, func(txCtx context.Context) error {
		if _, err := s.uow.GetCardRepository(txCtx).GetByID(txCtx, cardID); err != nil {
			return err
		}

		listings := s.uow.GetListingRepository(txCtx)
		active, err := listings.CountActiveBySeller(txCtx, sellerID)
		if err != nil {
			return err
		}
		if s.cfg.ListingCap > 0 && active >= s.cfg.ListingCap {
			return errs.ErrLimitExceeded
		}

		entry, err := s.uow.GetInventoryRepository(txCtx).Get(txCtx, sellerID, cardID)
		if err != nil {
			return err
		}
		if entry.Quantity < 2 {
			return errs.ErrNotOwned
		}

		listing = &entity.Listing{
			SellerID:  sellerID,
			CardID:    cardID,
			Price:     price,
			Status:    entity.ListingActive,
			CreatedAt: s.clock.Now(),
		}
		return listings.Create(txCtx, listing)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, coreport.AuditListingCreated, sellerID, coreport.SeverityInfo, map[string]any{
		"listing_id": listing.ID,
		"card_id":    cardID,
		"price":      price,
	})
	return listing, nil
}

// Purchase buys a listing: currency moves buyer to seller and one copy moves
// seller to buyer, atomically. A listing whose seller no longer holds the card
// is cancelled and the purchase fails.
func (s *Service) Purchase(ctx context.Context, listingID, buyerID uint64) (*usecase.PurchaseResult, error) {
	if err := s.gate.Check(ctx, buyerID, usecase.ActionPurchaseListing); err != nil {
		return nil, err
	}

	var result *usecase.PurchaseResult
	var autoCancelled *entity.Listing
	err := s.engine.Execute(ctx, opPurchaseListing, buyerID, func(txCtx context.Context) error {
		autoCancelled = nil
		listings := s.uow.GetListingRepository(txCtx)
		inventory := s.uow.GetInventoryRepository(txCtx)
		now := s.clock.Now()

		listing, err := listings.GetByID(txCtx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != entity.ListingActive {
			return errs.ErrListingUnavailable
		}
		if listing.SellerID == buyerID {
			return errs.ErrSelfPurchase
		}

		entry, err := inventory.Get(txCtx, listing.SellerID, listing.CardID)
		if err != nil && !errors.Is(err, errs.ErrNotOwned) {
			return err
		}
		if err != nil || entry.Quantity < 1 {
			if err := listings.Transition(txCtx, listingID, entity.ListingCancelled, nil, now); err != nil {
				return err
			}
			autoCancelled = listing
			return economy.CommitAndFail(errs.ErrListingUnavailable)
		}

		if err := listings.Transition(txCtx, listingID, entity.ListingSold, &buyerID, now); err != nil {
			return err
		}
		if err := economy.Transfer(txCtx, s.uow, buyerID, listing.SellerID, listing.Price, s.cfg.MaxBalance); err != nil {
			return err
		}
		if err := inventory.Remove(txCtx, listing.SellerID, listing.CardID, 1, 0); err != nil {
			return err
		}
		if err := inventory.Add(txCtx, buyerID, listing.CardID, 1, now); err != nil {
			return err
		}

		sold, err := listings.GetByID(txCtx, listingID)
		if err != nil {
			return err
		}
		buyer, err := s.uow.GetAccountRepository(txCtx).GetByID(txCtx, buyerID)
		if err != nil {
			return err
		}
		result = &usecase.PurchaseResult{Listing: *sold, BuyerBalance: buyer.Balance}
		return nil
	})

	if autoCancelled != nil {
		s.record(ctx, coreport.AuditListingAutoCancelled, autoCancelled.SellerID, coreport.SeverityWarning, map[string]any{
			"listing_id": autoCancelled.ID,
			"card_id":    autoCancelled.CardID,
			"buyer_id":   buyerID,
		})
		s.logger.Warn("Listing cancelled, seller no longer holds the card", map[string]any{
			"listing_id": autoCancelled.ID,
			"seller_id":  autoCancelled.SellerID,
		})
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, coreport.AuditListingPurchased, buyerID, coreport.SeverityInfo, map[string]any{
		"listing_id": listingID,
		"seller_id":  result.Listing.SellerID,
		"card_id":    result.Listing.CardID,
		"price":      result.Listing.Price,
	})
	return result, nil
}

// Cancel withdraws an active listing. Only its seller may cancel it.
func (s *Service) Cancel(ctx context.Context, listingID, sellerID uint64) (*entity.Listing, error) {
	if err := s.gate.Check(ctx, sellerID, usecase.ActionCancelListing); err != nil {
		return nil, err
	}

	var cancelled *entity.Listing
	err := s.engine.Execute(ctx, opCancelListing, sellerID, func(txCtx context.Context) error {
		listings := s.uow.GetListingRepository(txCtx)

		listing, err := listings.GetByID(txCtx, listingID)
		if err != nil {
			return err
		}
		if listing.SellerID != sellerID {
			return errs.ErrNotOwned
		}
		if err := listings.Transition(txCtx, listingID, entity.ListingCancelled, nil, s.clock.Now()); err != nil {
			return err
		}

		cancelled, err = listings.GetByID(txCtx, listingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, coreport.AuditListingCancelled, sellerID, coreport.SeverityInfo, map[string]any{
		"listing_id": listingID,
	})
	return cancelled, nil
}

// ListActive browses active listings, newest first
func (s *Service) ListActive(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && filter.Limit > s.cfg.MaxPageSize {
		filter.Limit = s.cfg.MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.uow.GetListingRepository(ctx).ListActive(ctx, filter)
}

func (s *Service) record(ctx context.Context, action string, accountID uint64, severity coreport.AuditSeverity, details map[string]any) {
	s.audit.Record(ctx, coreport.AuditEvent{
		ID:        uuid.NewString(),
		Action:    action,
		AccountID: accountID,
		Severity:  severity,
		Details:   details,
		At:        s.clock.Now(),
	})
}
