package memory

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

type accountRepository struct {
	store *Store
}

func (r *accountRepository) GetByID(ctx context.Context, id uint64) (*entity.Account, error) {
	var out *entity.Account
	err := r.store.run(ctx, func(st *state) error {
		acc, ok := st.accounts[id]
		if !ok {
			return errs.ErrAccountNotFound
		}
		out = &acc
		return nil
	})
	return out, err
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	return r.store.run(ctx, func(st *state) error {
		if _, ok := st.accounts[account.ID]; ok {
			return errs.ErrAccountExists
		}
		st.accounts[account.ID] = *account
		return nil
	})
}

// update applies fn to an existing account; fn returning an error leaves the row unchanged
func (r *accountRepository) update(ctx context.Context, id uint64, fn func(acc *entity.Account) error) error {
	return r.store.run(ctx, func(st *state) error {
		acc, ok := st.accounts[id]
		if !ok {
			return errs.ErrAccountNotFound
		}
		if err := fn(&acc); err != nil {
			return err
		}
		st.accounts[id] = acc
		return nil
	})
}

func (r *accountRepository) DebitBalance(ctx context.Context, id uint64, amount int64) error {
	if amount < 0 {
		return errs.ErrInvalidRequest
	}
	return r.update(ctx, id, func(acc *entity.Account) error {
		if acc.Balance < amount {
			return errs.NewInsufficientFundsError(id, amount, acc.Balance)
		}
		acc.Balance -= amount
		return nil
	})
}

func (r *accountRepository) CreditBalance(ctx context.Context, id uint64, amount, max int64) error {
	return r.update(ctx, id, func(acc *entity.Account) error {
		if !entity.CreditFits(acc.Balance, amount, max) {
			return errs.ErrLimitExceeded
		}
		acc.Balance += amount
		return nil
	})
}

func (r *accountRepository) ConsumeBooster(ctx context.Context, id uint64, regenAt time.Time) error {
	return r.update(ctx, id, func(acc *entity.Account) error {
		if acc.AvailableBoosters <= 0 {
			return errs.ErrInsufficientAllotment
		}
		acc.AvailableBoosters--
		if acc.AvailableBoosters == 0 {
			acc.NextBoosterAt = &regenAt
		}
		return nil
	})
}

func (r *accountRepository) RefillBoosters(ctx context.Context, id uint64, now time.Time, allotment int) (bool, error) {
	refilled := false
	err := r.update(ctx, id, func(acc *entity.Account) error {
		if acc.AllotmentDue(now) {
			acc.AvailableBoosters = allotment
			acc.NextBoosterAt = nil
			acc.UpdatedAt = now
			refilled = true
		}
		return nil
	})
	return refilled, err
}

func (r *accountRepository) MarkDailyClaimed(ctx context.Context, id uint64, now time.Time, cooldown time.Duration) error {
	return r.update(ctx, id, func(acc *entity.Account) error {
		if !acc.CanClaimDaily(now, cooldown) {
			return errs.ErrDailyCooldown
		}
		acc.LastDailyClaimAt = &now
		acc.UpdatedAt = now
		return nil
	})
}

func (r *accountRepository) TotalBalance(ctx context.Context) (int64, error) {
	var total int64
	err := r.store.run(ctx, func(st *state) error {
		for _, acc := range st.accounts {
			total += acc.Balance
		}
		return nil
	})
	return total, err
}
