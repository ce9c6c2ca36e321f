package economy

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

const (
	opRegisterAccount = "register_account"
	opGetAccount      = "get_account"
)

// RegisterAccount implements usecase.EconomyUseCase
func (s *Service) RegisterAccount(ctx context.Context, accountID uint64) (*entity.Account, error) {
	if accountID == 0 {
		return nil, errs.ErrInvalidRequest
	}

	var account *entity.Account
	err := s.engine.Execute(ctx, opRegisterAccount, accountID, func(txCtx context.Context) error {
		accounts := s.uow.GetAccountRepository(txCtx)

		existing, err := accounts.GetByID(txCtx, accountID)
		if err == nil {
			account = existing
			return nil
		}
		if !errors.Is(err, errs.ErrAccountNotFound) {
			return err
		}

		account = entity.NewAccount(accountID, s.cfg.StartingBalance, s.cfg.MaxAllotment, s.clock.Now())
		return accounts.Create(txCtx, account)
	})
	if errors.Is(err, errs.ErrAccountExists) {
		// Lost a concurrent registration
		return s.uow.GetAccountRepository(ctx).GetByID(ctx, accountID)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns the account with a due allotment regenerated
func (s *Service) GetAccount(ctx context.Context, accountID uint64) (*usecase.AccountView, error) {
	var view *usecase.AccountView
	err := s.engine.Execute(ctx, opGetAccount, accountID, func(txCtx context.Context) error {
		accounts := s.uow.GetAccountRepository(txCtx)
		now := s.clock.Now()

		if _, err := accounts.RefillBoosters(txCtx, accountID, now, s.cfg.MaxAllotment); err != nil {
			return err
		}
		account, err := accounts.GetByID(txCtx, accountID)
		if err != nil {
			return err
		}

		view = &usecase.AccountView{
			Account:           *account,
			TimeToNextBooster: account.TimeToNextBooster(now),
			DailyAvailableAt:  account.DailyAvailableAt(s.cfg.DailyCooldown),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListInventory returns the held cards of an account
func (s *Service) ListInventory(ctx context.Context, accountID uint64) ([]entity.InventoryItem, error) {
	return s.uow.GetInventoryRepository(ctx).ListByAccount(ctx, accountID)
}

// SetFavorite toggles the favorite flag of a held card
func (s *Service) SetFavorite(ctx context.Context, accountID, cardID uint64, favorite bool) error {
	return s.uow.GetInventoryRepository(ctx).SetFavorite(ctx, accountID, cardID, favorite)
}

// ListNotifications returns the notifications of an account
func (s *Service) ListNotifications(ctx context.Context, accountID uint64) ([]entity.Notification, error) {
	return s.uow.GetNotificationRepository(ctx).ListByAccount(ctx, accountID)
}
