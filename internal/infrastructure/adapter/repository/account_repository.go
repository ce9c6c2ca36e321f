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

// AccountRepository implements persistence.AccountRepository using GORM.
// Mutations are single conditional UPDATEs; zero affected rows is the failure signal.
type AccountRepository struct {
	base
	timeProvider coreport.TimeProvider
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{base: newBase(db, logger), timeProvider: timeProvider}
}

var _ persistence.AccountRepository = (*AccountRepository)(nil)

func accountToEntity(m *model.Account) *entity.Account {
	return &entity.Account{
		ID:                m.ID,
		Balance:           m.Balance,
		AvailableBoosters: m.AvailableBoosters,
		NextBoosterAt:     m.NextBoosterAt,
		LastDailyClaimAt:  m.LastDailyClaimAt,
		IsAdmin:           m.IsAdmin,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uint64) (*entity.Account, error) {
	var m model.Account
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting account", err, errs.ErrAccountNotFound, nil, map[string]any{
			"account_id": id,
		})
	}
	return accountToEntity(&m), nil
}

// Create stores a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	r.logger.Debug("Creating new account", map[string]any{
		"account_id": account.ID,
		"balance":    account.Balance,
	})

	m := model.Account{
		ID:                account.ID,
		Balance:           account.Balance,
		AvailableBoosters: account.AvailableBoosters,
		NextBoosterAt:     account.NextBoosterAt,
		LastDailyClaimAt:  account.LastDailyClaimAt,
		IsAdmin:           account.IsAdmin,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating account", err, nil, errs.ErrAccountExists, map[string]any{
			"account_id": account.ID,
		})
	}
	return nil
}

// conditionalUpdate applies updates to the account when cond holds and
// reports whether a row matched
func (r *AccountRepository) conditionalUpdate(ctx context.Context, operation string, id uint64, updates map[string]any, cond string, args ...any) (bool, error) {
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = r.timeProvider.Now()
	}
	query := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id)
	if cond != "" {
		query = query.Where(cond, args...)
	}
	result := query.Updates(updates)
	if result.Error != nil {
		return false, r.handleDatabaseError(operation, result.Error, errs.ErrAccountNotFound, nil, map[string]any{
			"account_id": id,
		})
	}
	return result.RowsAffected > 0, nil
}

// DebitBalance subtracts amount when balance >= amount
func (r *AccountRepository) DebitBalance(ctx context.Context, id uint64, amount int64) error {
	if amount < 0 {
		return errs.ErrInvalidRequest
	}
	ok, err := r.conditionalUpdate(ctx, "debiting balance", id,
		map[string]any{"balance": gorm.Expr("balance - ?", amount)},
		"balance >= ?", amount)
	if err != nil || ok {
		return err
	}

	account, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return errs.NewInsufficientFundsError(id, amount, account.Balance)
}

// CreditBalance adds amount when the result stays <= max
func (r *AccountRepository) CreditBalance(ctx context.Context, id uint64, amount, max int64) error {
	if amount < 0 || amount > max {
		return errs.ErrLimitExceeded
	}
	ok, err := r.conditionalUpdate(ctx, "crediting balance", id,
		map[string]any{"balance": gorm.Expr("balance + ?", amount)},
		"balance <= ?", max-amount)
	if err != nil || ok {
		return err
	}
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	return errs.ErrLimitExceeded
}

// ConsumeBooster decrements the allotment and stamps regenAt when it reaches zero
func (r *AccountRepository) ConsumeBooster(ctx context.Context, id uint64, regenAt time.Time) error {
	ok, err := r.conditionalUpdate(ctx, "consuming booster", id,
		map[string]any{
			"available_boosters": gorm.Expr("available_boosters - 1"),
			"next_booster_at":    gorm.Expr("CASE WHEN available_boosters = 1 THEN ? ELSE next_booster_at END", regenAt),
		},
		"available_boosters > 0")
	if err != nil || ok {
		return err
	}
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	return errs.ErrInsufficientAllotment
}

// RefillBoosters restores a depleted allotment once next_booster_at has passed
func (r *AccountRepository) RefillBoosters(ctx context.Context, id uint64, now time.Time, allotment int) (bool, error) {
	ok, err := r.conditionalUpdate(ctx, "refilling boosters", id,
		map[string]any{
			"available_boosters": allotment,
			"next_booster_at":    nil,
			"updated_at":         now,
		},
		"available_boosters = 0 AND next_booster_at IS NOT NULL AND next_booster_at <= ?", now)
	if err != nil || ok {
		return ok, err
	}
	return false, r.exists(ctx, id)
}

// MarkDailyClaimed records a daily claim when the cooldown has elapsed
func (r *AccountRepository) MarkDailyClaimed(ctx context.Context, id uint64, now time.Time, cooldown time.Duration) error {
	ok, err := r.conditionalUpdate(ctx, "marking daily claim", id,
		map[string]any{
			"last_daily_claim_at": now,
			"updated_at":          now,
		},
		"(last_daily_claim_at IS NULL OR last_daily_claim_at <= ?)", now.Add(-cooldown))
	if err != nil || ok {
		return err
	}
	if err := r.exists(ctx, id); err != nil {
		return err
	}
	return errs.ErrDailyCooldown
}

// TotalBalance sums the balance of every account
func (r *AccountRepository) TotalBalance(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, r.handleDatabaseError("summing balances", err, nil, nil, nil)
	}
	return total, nil
}

func (r *AccountRepository) exists(ctx context.Context, id uint64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return r.handleDatabaseError("checking account", err, nil, nil, map[string]any{"account_id": id})
	}
	if count == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}
