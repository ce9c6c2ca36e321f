package economy

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

const (
	opClaimDaily        = "claim_daily"
	opClaimNotification = "claim_notification"
)

// ClaimDailyReward credits the daily reward. The claim is keyed by the daily
// period so concurrent claims collide in the ledger and exactly one succeeds.
func (s *Service) ClaimDailyReward(ctx context.Context, accountID uint64) (*usecase.ClaimResult, error) {
	if err := s.gate.Check(ctx, accountID, usecase.ActionClaimDaily); err != nil {
		return nil, err
	}

	var result *usecase.ClaimResult
	err := s.engine.Execute(ctx, opClaimDaily, accountID, func(txCtx context.Context) error {
		now := s.clock.Now()
		accounts := s.uow.GetAccountRepository(txCtx)

		if err := accounts.MarkDailyClaimed(txCtx, accountID, now, s.cfg.DailyCooldown); err != nil {
			return err
		}

		claim := &entity.Claim{
			AccountID:  accountID,
			RewardType: entity.RewardDaily,
			RewardKey:  entity.DailyRewardKey(now, s.cfg.DailyPeriod),
			Amount:     s.cfg.DailyReward,
			ClaimedAt:  now,
		}
		balance, err := CreditClaim(txCtx, s.uow, claim, s.cfg.MaxBalance)
		if err != nil {
			return err
		}

		result = claimResult(claim, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, coreport.AuditDailyRewardClaimed, accountID, map[string]any{
		"reward_key": result.RewardKey,
		"amount":     result.Amount,
	})
	return result, nil
}

// ClaimNotificationReward credits the reward attached to one of the account's notifications
func (s *Service) ClaimNotificationReward(ctx context.Context, accountID, notificationID uint64) (*usecase.ClaimResult, error) {
	if err := s.gate.Check(ctx, accountID, usecase.ActionClaimNotification); err != nil {
		return nil, err
	}

	var result *usecase.ClaimResult
	err := s.engine.Execute(ctx, opClaimNotification, accountID, func(txCtx context.Context) error {
		notification, err := s.uow.GetNotificationRepository(txCtx).GetByID(txCtx, notificationID)
		if err != nil {
			return err
		}
		if notification.AccountID != accountID {
			return errs.ErrNotificationNotFound
		}
		if !notification.HasReward() {
			return errs.ErrNoReward
		}

		claim := &entity.Claim{
			AccountID:  accountID,
			RewardType: entity.RewardNotification,
			RewardKey:  entity.NotificationRewardKey(notificationID),
			Amount:     notification.Reward,
			ClaimedAt:  s.clock.Now(),
		}
		balance, err := CreditClaim(txCtx, s.uow, claim, s.cfg.MaxBalance)
		if err != nil {
			return err
		}

		result = claimResult(claim, balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, coreport.AuditNotificationClaimed, accountID, map[string]any{
		"notification_id": notificationID,
		"amount":          result.Amount,
	})
	return result, nil
}

func claimResult(claim *entity.Claim, balance int64) *usecase.ClaimResult {
	return &usecase.ClaimResult{
		RewardType: claim.RewardType,
		RewardKey:  claim.RewardKey,
		Amount:     claim.Amount,
		Balance:    balance,
	}
}
