package entity

import "time"

// AbuseTracker is the ephemeral gate state of one account
type AbuseTracker struct {
	AccountID    uint64                 `json:"accountId"`
	Actions      map[string][]time.Time `json:"actions"` // Accepted timestamps per action type, oldest first
	Score        float64                `json:"score"`
	BlockedUntil *time.Time             `json:"blockedUntil,omitempty"`
	LastSeen     time.Time              `json:"lastSeen"`
}

// NewAbuseTracker creates an empty tracker
func NewAbuseTracker(accountID uint64) *AbuseTracker {
	return &AbuseTracker{AccountID: accountID, Actions: make(map[string][]time.Time)}
}

// Blocked reports whether the tracker is blocked at now
func (t *AbuseTracker) Blocked(now time.Time) bool {
	return t.BlockedUntil != nil && now.Before(*t.BlockedUntil)
}

// Prune drops timestamps older than window for every action type
func (t *AbuseTracker) Prune(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	for action, stamps := range t.Actions {
		i := 0
		for i < len(stamps) && !stamps[i].After(cutoff) {
			i++
		}
		if i == len(stamps) {
			delete(t.Actions, action)
			continue
		}
		t.Actions[action] = stamps[i:]
	}
}

// CountSince counts accepted actions of one type strictly after since
func (t *AbuseTracker) CountSince(action string, since time.Time) int {
	count := 0
	stamps := t.Actions[action]
	for i := len(stamps) - 1; i >= 0 && stamps[i].After(since); i-- {
		count++
	}
	return count
}

// Last returns the most recent accepted timestamp of one action type
func (t *AbuseTracker) Last(action string) (time.Time, bool) {
	stamps := t.Actions[action]
	if len(stamps) == 0 {
		return time.Time{}, false
	}
	return stamps[len(stamps)-1], true
}

// Idle reports whether the tracker holds nothing worth keeping after idle time without activity
func (t *AbuseTracker) Idle(now time.Time, idle time.Duration) bool {
	return !t.Blocked(now) && now.Sub(t.LastSeen) >= idle
}
