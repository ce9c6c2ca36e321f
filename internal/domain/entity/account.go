package entity

import "time"

// Account holds the economy state of one player
type Account struct {
	ID                uint64     // Unique identifier, supplied by the authentication layer
	Balance           int64      // Virtual currency, always within [0, MaxBalance]
	AvailableBoosters int        // Free boosters left, always within [0, MaxAllotment]
	NextBoosterAt     *time.Time // Set when the allotment reaches 0
	LastDailyClaimAt  *time.Time
	IsAdmin           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewAccount creates an account with a full allotment and the given starting balance
func NewAccount(id uint64, balance int64, allotment int, now time.Time) *Account {
	return &Account{
		ID:                id,
		Balance:           balance,
		AvailableBoosters: allotment,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// AllotmentDue reports whether a depleted allotment has reached its regeneration time
func (a *Account) AllotmentDue(now time.Time) bool {
	return a.AvailableBoosters == 0 && a.NextBoosterAt != nil && !now.Before(*a.NextBoosterAt)
}

// TimeToNextBooster returns how long until the allotment regenerates, 0 when boosters are available
func (a *Account) TimeToNextBooster(now time.Time) time.Duration {
	if a.AvailableBoosters > 0 || a.NextBoosterAt == nil {
		return 0
	}
	if d := a.NextBoosterAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// DailyAvailableAt returns when the daily reward can next be claimed
func (a *Account) DailyAvailableAt(cooldown time.Duration) time.Time {
	if a.LastDailyClaimAt == nil {
		return time.Time{}
	}
	return a.LastDailyClaimAt.Add(cooldown)
}

// CanClaimDaily reports whether the cooldown since the last daily claim has elapsed
func (a *Account) CanClaimDaily(now time.Time, cooldown time.Duration) bool {
	return !now.Before(a.DailyAvailableAt(cooldown))
}
