package economy

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

const (
	opOpenBooster = "open_booster"
	opBuyBooster  = "buy_booster"
)

// OpenBooster opens a booster paid with one unit of free allotment.
// A depleted allotment whose regeneration time has passed is refilled first.
func (s *Service) OpenBooster(ctx context.Context, accountID, boosterID uint64) (*usecase.OpeningResult, error) {
	if err := s.gate.Check(ctx, accountID, usecase.ActionOpenBooster); err != nil {
		return nil, err
	}
	return s.openBooster(ctx, opOpenBooster, accountID, boosterID, entity.SourceAllotment)
}

// BuyBooster opens a booster paid with its currency price
func (s *Service) BuyBooster(ctx context.Context, accountID, boosterID uint64) (*usecase.OpeningResult, error) {
	if err := s.gate.Check(ctx, accountID, usecase.ActionBuyBooster); err != nil {
		return nil, err
	}
	return s.openBooster(ctx, opBuyBooster, accountID, boosterID, entity.SourceCurrency)
}

func (s *Service) openBooster(
	ctx context.Context,
	operation string,
	accountID, boosterID uint64,
	source entity.OpeningSource,
) (*usecase.OpeningResult, error) {
	pool, err := s.pools.Pool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load card pool: %w", err)
	}

	var result *usecase.OpeningResult
	var booster *entity.Booster

	err = s.engine.Execute(ctx, operation, accountID, func(txCtx context.Context) error {
		var err error
		booster, err = s.uow.GetBoosterRepository(txCtx).GetByID(txCtx, boosterID)
		if err != nil {
			return err
		}
		if !booster.Active {
			return errs.ErrBoosterInactive
		}

		accounts := s.uow.GetAccountRepository(txCtx)
		now := s.clock.Now()

		switch source {
		case entity.SourceAllotment:
			if _, err := accounts.RefillBoosters(txCtx, accountID, now, s.cfg.MaxAllotment); err != nil {
				return err
			}
			if err := accounts.ConsumeBooster(txCtx, accountID, now.Add(s.cfg.AllotmentInterval)); err != nil {
				return err
			}
		case entity.SourceCurrency:
			if err := accounts.DebitBalance(txCtx, accountID, booster.Price); err != nil {
				return err
			}
		}

		cards, err := s.generator.DrawN(pool, booster.ScopeID, s.cfg.BoosterSize)
		if err != nil {
			return err
		}

		inventory := s.uow.GetInventoryRepository(txCtx)
		cardIDs := make([]uint64, 0, len(cards))
		counts := make(map[uint64]int, len(cards))
		for _, c := range cards {
			if counts[c.ID] == 0 {
				cardIDs = append(cardIDs, c.ID)
			}
			counts[c.ID]++
		}
		for _, id := range cardIDs {
			if err := inventory.Add(txCtx, accountID, id, counts[id], now); err != nil {
				return err
			}
		}

		opening := entity.BoosterOpening{
			ID:        uuid.NewString(),
			AccountID: accountID,
			BoosterID: booster.ID,
			CardIDs:   make([]uint64, 0, len(cards)),
			Source:    source,
			OpenedAt:  now,
		}
		for _, c := range cards {
			opening.CardIDs = append(opening.CardIDs, c.ID)
		}
		if err := s.uow.GetBoosterRepository(txCtx).RecordOpening(txCtx, &opening); err != nil {
			return err
		}

		account, err := accounts.GetByID(txCtx, accountID)
		if err != nil {
			return err
		}

		result = &usecase.OpeningResult{
			Opening:           opening,
			Cards:             cards,
			Balance:           account.Balance,
			AvailableBoosters: account.AvailableBoosters,
			NextBoosterAt:     account.NextBoosterAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.progress.AfterBoosterOpened(ctx, accountID, booster)

	action := coreport.AuditBoosterOpened
	if source == entity.SourceCurrency {
		action = coreport.AuditBoosterPurchased
	}
	s.record(ctx, action, accountID, map[string]any{
		"booster_id": booster.ID,
		"opening_id": result.Opening.ID,
		"card_ids":   result.Opening.CardIDs,
		"source":     string(source),
	})

	s.logger.Info("Booster opened", map[string]any{
		"account_id": accountID,
		"booster_id": booster.ID,
		"source":     string(source),
		"cards":      len(result.Cards),
	})
	return result, nil
}
