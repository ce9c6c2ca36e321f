package entity

import "time"

// Notification is a message to one account, optionally carrying a one-time reward
type Notification struct {
	ID        uint64
	AccountID uint64
	Title     string
	Reward    int64 // 0 means nothing to claim
	CreatedAt time.Time
}

// HasReward reports whether the notification carries a claimable reward
func (n *Notification) HasReward() bool {
	return n.Reward > 0
}
