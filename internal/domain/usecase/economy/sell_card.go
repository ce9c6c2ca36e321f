package economy

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

const opSellCard = "sell_card"

// SellCard sells quantity copies back to the system. The account must hold
// strictly more than quantity so that at least one copy remains.
func (s *Service) SellCard(ctx context.Context, accountID, cardID uint64, quantity int) (*usecase.SaleResult, error) {
	if quantity <= 0 {
		return nil, errs.ErrInvalidQuantity
	}
	if err := s.gate.Check(ctx, accountID, usecase.ActionSellCard); err != nil {
		return nil, err
	}

	var result *usecase.SaleResult
	err := s.engine.Execute(ctx, opSellCard, accountID, func(txCtx context.Context) error {
		card, err := s.uow.GetCardRepository(txCtx).GetByID(txCtx, cardID)
		if err != nil {
			return err
		}

		proceeds, ok := entity.MultiplyPrice(s.cfg.SellPrice(card.Rarity), quantity)
		if !ok {
			return errs.ErrLimitExceeded
		}

		inventory := s.uow.GetInventoryRepository(txCtx)
		if err := inventory.Remove(txCtx, accountID, cardID, quantity, 1); err != nil {
			return err
		}

		accounts := s.uow.GetAccountRepository(txCtx)
		if proceeds > 0 {
			if err := accounts.CreditBalance(txCtx, accountID, proceeds, s.cfg.MaxBalance); err != nil {
				return err
			}
		}

		entry, err := inventory.Get(txCtx, accountID, cardID)
		if err != nil {
			return err
		}
		account, err := accounts.GetByID(txCtx, accountID)
		if err != nil {
			return err
		}

		result = &usecase.SaleResult{
			CardID:    cardID,
			Quantity:  quantity,
			Proceeds:  proceeds,
			Balance:   account.Balance,
			Remaining: entry.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, coreport.AuditCardSold, accountID, map[string]any{
		"card_id":  cardID,
		"quantity": quantity,
		"proceeds": result.Proceeds,
	})
	return result, nil
}
