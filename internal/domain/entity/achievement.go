package entity

import "time"

// AchievementKind selects the aggregate an achievement is measured against
type AchievementKind string

const (
	KindBoostersOpened     AchievementKind = "boosters_opened"
	KindDistinctCards      AchievementKind = "distinct_cards"
	KindScopeDistinctCards AchievementKind = "scope_distinct_cards"
)

// Valid reports whether k is a known kind
func (k AchievementKind) Valid() bool {
	switch k {
	case KindBoostersOpened, KindDistinctCards, KindScopeDistinctCards:
		return true
	}
	return false
}

// Achievement is a read-only goal definition
type Achievement struct {
	ID        uint64
	Name      string
	Kind      AchievementKind
	ScopeID   string // Only used by scope_distinct_cards
	Threshold int
	Reward    int64
	Active    bool
}

// MaxPlausibleProgress is the ceiling stored progress is clamped to: floor(threshold * 1.1)
func (a *Achievement) MaxPlausibleProgress() int {
	return a.Threshold * 11 / 10
}

// ClampProgress limits a freshly computed value to the plausible ceiling
func (a *Achievement) ClampProgress(value int) int {
	if ceiling := a.MaxPlausibleProgress(); value > ceiling {
		return ceiling
	}
	if value < 0 {
		return 0
	}
	return value
}

// AchievementProgress is the monotonic progress of one account towards one achievement
type AchievementProgress struct {
	AccountID     uint64
	AchievementID uint64
	Progress      int
	CompletedAt   *time.Time
	Claimed       bool
	ClaimedAt     *time.Time
}

// Completed reports whether progress has reached threshold
func (p *AchievementProgress) Completed(threshold int) bool {
	return p.Progress >= threshold
}

// AchievementStatus joins a definition with the account's progress for display
type AchievementStatus struct {
	Achievement Achievement
	Progress    AchievementProgress
}
