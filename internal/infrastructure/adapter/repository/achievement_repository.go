package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/model"
)

// AchievementRepository stores definitions and per-account progress
type AchievementRepository struct {
	base
}

// NewAchievementRepository creates a new AchievementRepository instance
func NewAchievementRepository(db *gorm.DB, logger coreport.Logger) *AchievementRepository {
	return &AchievementRepository{base: newBase(db, logger)}
}

var _ persistence.AchievementRepository = (*AchievementRepository)(nil)

func achievementToEntity(m *model.Achievement) entity.Achievement {
	return entity.Achievement{
		ID:        m.ID,
		Name:      m.Name,
		Kind:      entity.AchievementKind(m.Kind),
		ScopeID:   m.ScopeID,
		Threshold: m.Threshold,
		Reward:    m.Reward,
		Active:    m.Active,
	}
}

func progressToEntity(m *model.AchievementProgress) entity.AchievementProgress {
	return entity.AchievementProgress{
		AccountID:     m.AccountID,
		AchievementID: m.AchievementID,
		Progress:      m.Progress,
		CompletedAt:   m.CompletedAt,
		Claimed:       m.Claimed,
		ClaimedAt:     m.ClaimedAt,
	}
}

// ListDefinitions returns every achievement ordered by ID
func (r *AchievementRepository) ListDefinitions(ctx context.Context) ([]entity.Achievement, error) {
	var rows []model.Achievement
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("listing achievements", err, nil, nil, nil)
	}
	out := make([]entity.Achievement, 0, len(rows))
	for i := range rows {
		out = append(out, achievementToEntity(&rows[i]))
	}
	return out, nil
}

// GetDefinition retrieves an achievement by ID
func (r *AchievementRepository) GetDefinition(ctx context.Context, id uint64) (*entity.Achievement, error) {
	var m model.Achievement
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting achievement", err, errs.ErrAchievementNotFound, nil, map[string]any{
			"achievement_id": id,
		})
	}
	a := achievementToEntity(&m)
	return &a, nil
}

// GetProgress returns zero progress when nothing was recorded yet
func (r *AchievementRepository) GetProgress(ctx context.Context, accountID, achievementID uint64) (*entity.AchievementProgress, error) {
	var rows []model.AchievementProgress
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND achievement_id = ?", accountID, achievementID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("getting progress", err, nil, nil, map[string]any{
			"account_id":     accountID,
			"achievement_id": achievementID,
		})
	}
	if len(rows) == 0 {
		return &entity.AchievementProgress{AccountID: accountID, AchievementID: achievementID}, nil
	}
	p := progressToEntity(&rows[0])
	return &p, nil
}

// ListProgress returns every recorded progress of an account
func (r *AchievementRepository) ListProgress(ctx context.Context, accountID uint64) ([]entity.AchievementProgress, error) {
	var rows []model.AchievementProgress
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("achievement_id").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("listing progress", err, nil, nil, map[string]any{"account_id": accountID})
	}
	out := make([]entity.AchievementProgress, 0, len(rows))
	for i := range rows {
		out = append(out, progressToEntity(&rows[i]))
	}
	return out, nil
}

// RaiseProgress upserts GREATEST(existing, value) and stamps the first completion
func (r *AchievementRepository) RaiseProgress(ctx context.Context, accountID, achievementID uint64, value, threshold int, now time.Time) error {
	m := model.AchievementProgress{
		AccountID:     accountID,
		AchievementID: achievementID,
		Progress:      value,
	}
	if value >= threshold {
		m.CompletedAt = &now
	}
	completedAt := gorm.Expr(
		"COALESCE(achievement_progress.completed_at, CASE WHEN GREATEST(achievement_progress.progress, EXCLUDED.progress) >= ? THEN ?::timestamptz END)",
		threshold, now)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "achievement_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"progress":     gorm.Expr("GREATEST(achievement_progress.progress, EXCLUDED.progress)"),
			"completed_at": completedAt,
		}),
	}).Create(&m).Error
	if err != nil {
		return r.handleDatabaseError("raising progress", err, nil, nil, map[string]any{
			"account_id":     accountID,
			"achievement_id": achievementID,
			"value":          value,
		})
	}
	return nil
}

// MarkClaimed flips claimed from false to true for completed progress
func (r *AchievementRepository) MarkClaimed(ctx context.Context, accountID, achievementID uint64, threshold int, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.AchievementProgress{}).
		Where("account_id = ? AND achievement_id = ? AND claimed = ? AND progress >= ?", accountID, achievementID, false, threshold).
		Updates(map[string]any{"claimed": true, "claimed_at": now})
	if result.Error != nil {
		return r.handleDatabaseError("marking achievement claimed", result.Error, nil, nil, map[string]any{
			"account_id":     accountID,
			"achievement_id": achievementID,
		})
	}
	if result.RowsAffected == 0 {
		return errs.ErrAlreadyClaimed
	}
	return nil
}

// ClaimRepository is the one-time claim ledger. The unique index on
// (account_id, reward_type, reward_key) makes concurrent duplicates collide.
type ClaimRepository struct {
	base
}

// NewClaimRepository creates a new ClaimRepository instance
func NewClaimRepository(db *gorm.DB, logger coreport.Logger) *ClaimRepository {
	return &ClaimRepository{base: newBase(db, logger)}
}

var _ persistence.ClaimRepository = (*ClaimRepository)(nil)

// Insert returns ErrAlreadyClaimed when the ledger row exists
func (r *ClaimRepository) Insert(ctx context.Context, claim *entity.Claim) error {
	m := model.Claim{
		AccountID:  claim.AccountID,
		RewardType: string(claim.RewardType),
		RewardKey:  claim.RewardKey,
		Amount:     claim.Amount,
		ClaimedAt:  claim.ClaimedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("inserting claim", err, nil, errs.ErrAlreadyClaimed, map[string]any{
			"account_id":  claim.AccountID,
			"reward_type": string(claim.RewardType),
			"reward_key":  claim.RewardKey,
		})
	}
	return nil
}

// Exists reports whether the ledger row exists
func (r *ClaimRepository) Exists(ctx context.Context, accountID uint64, rewardType entity.RewardType, rewardKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("account_id = ? AND reward_type = ? AND reward_key = ?", accountID, string(rewardType), rewardKey).
		Count(&count).Error
	if err != nil {
		return false, r.handleDatabaseError("checking claim", err, nil, nil, map[string]any{"account_id": accountID})
	}
	return count > 0, nil
}
