package memory

import (
	"context"
	"slices"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

type achievementRepository struct {
	store *Store
}

func (r *achievementRepository) ListDefinitions(ctx context.Context) ([]entity.Achievement, error) {
	var out []entity.Achievement
	err := r.store.run(ctx, func(st *state) error {
		for _, a := range st.achievements {
			out = append(out, a)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.Achievement) int { return compareID(a.ID, b.ID) })
	return out, err
}

func (r *achievementRepository) GetDefinition(ctx context.Context, id uint64) (*entity.Achievement, error) {
	var out *entity.Achievement
	err := r.store.run(ctx, func(st *state) error {
		a, ok := st.achievements[id]
		if !ok {
			return errs.ErrAchievementNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *achievementRepository) GetProgress(ctx context.Context, accountID, achievementID uint64) (*entity.AchievementProgress, error) {
	var out *entity.AchievementProgress
	err := r.store.run(ctx, func(st *state) error {
		p, ok := st.progress[progressKey{accountID, achievementID}]
		if !ok {
			p = entity.AchievementProgress{AccountID: accountID, AchievementID: achievementID}
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *achievementRepository) ListProgress(ctx context.Context, accountID uint64) ([]entity.AchievementProgress, error) {
	var out []entity.AchievementProgress
	err := r.store.run(ctx, func(st *state) error {
		for key, p := range st.progress {
			if key.accountID == accountID {
				out = append(out, p)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.AchievementProgress) int { return compareID(a.AchievementID, b.AchievementID) })
	return out, err
}

func (r *achievementRepository) RaiseProgress(ctx context.Context, accountID, achievementID uint64, value, threshold int, now time.Time) error {
	return r.store.run(ctx, func(st *state) error {
		key := progressKey{accountID, achievementID}
		p, ok := st.progress[key]
		if !ok {
			p = entity.AchievementProgress{AccountID: accountID, AchievementID: achievementID}
		}
		if value > p.Progress {
			p.Progress = value
		}
		if p.CompletedAt == nil && p.Progress >= threshold {
			p.CompletedAt = &now
		}
		st.progress[key] = p
		return nil
	})
}

func (r *achievementRepository) MarkClaimed(ctx context.Context, accountID, achievementID uint64, threshold int, now time.Time) error {
	return r.store.run(ctx, func(st *state) error {
		key := progressKey{accountID, achievementID}
		p, ok := st.progress[key]
		if !ok || p.Claimed || p.Progress < threshold {
			return errs.ErrAlreadyClaimed
		}
		p.Claimed = true
		p.ClaimedAt = &now
		st.progress[key] = p
		return nil
	})
}

type claimRepository struct {
	store *Store
}

func (r *claimRepository) Insert(ctx context.Context, claim *entity.Claim) error {
	return r.store.run(ctx, func(st *state) error {
		key := claimKey{claim.AccountID, claim.RewardType, claim.RewardKey}
		if _, ok := st.claims[key]; ok {
			return errs.ErrAlreadyClaimed
		}
		st.claims[key] = *claim
		return nil
	})
}

func (r *claimRepository) Exists(ctx context.Context, accountID uint64, rewardType entity.RewardType, rewardKey string) (bool, error) {
	found := false
	err := r.store.run(ctx, func(st *state) error {
		_, found = st.claims[claimKey{accountID, rewardType, rewardKey}]
		return nil
	})
	return found, err
}
