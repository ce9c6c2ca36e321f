package achievement

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/economy"
)

// Claim credits the reward of a completed achievement exactly once
func (t *Tracker) Claim(ctx context.Context, accountID, achievementID uint64) (*usecase.ClaimResult, error) {
	if err := t.gate.Check(ctx, accountID, usecase.ActionClaimAchievement); err != nil {
		return nil, err
	}

	var result *usecase.ClaimResult
	err := t.engine.Execute(ctx, opClaim, accountID, func(txCtx context.Context) error {
		repo := t.uow.GetAchievementRepository(txCtx)

		def, err := repo.GetDefinition(txCtx, achievementID)
		if err != nil {
			return err
		}
		if !def.Active {
			return errs.ErrAchievementNotFound
		}

		progress, err := repo.GetProgress(txCtx, accountID, achievementID)
		if err != nil {
			return err
		}
		if progress.Claimed {
			return errs.ErrAlreadyClaimed
		}
		if !progress.Completed(def.Threshold) {
			return errs.ErrAchievementIncomplete
		}

		now := t.clock.Now()
		claim := &entity.Claim{
			AccountID:  accountID,
			RewardType: entity.RewardAchievement,
			RewardKey:  entity.AchievementRewardKey(achievementID),
			Amount:     def.Reward,
			ClaimedAt:  now,
		}
		balance, err := economy.CreditClaim(txCtx, t.uow, claim, t.cfg.MaxBalance)
		if err != nil {
			return err
		}
		if err := repo.MarkClaimed(txCtx, accountID, achievementID, def.Threshold, now); err != nil {
			return err
		}

		result = &usecase.ClaimResult{
			RewardType: claim.RewardType,
			RewardKey:  claim.RewardKey,
			Amount:     claim.Amount,
			Balance:    balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.audit.Record(ctx, coreport.AuditEvent{
		ID:        uuid.NewString(),
		Action:    coreport.AuditAchievementClaimed,
		AccountID: accountID,
		Severity:  coreport.SeverityInfo,
		Details: map[string]any{
			"achievement_id": achievementID,
			"amount":         result.Amount,
		},
		At: t.clock.Now(),
	})
	return result, nil
}
