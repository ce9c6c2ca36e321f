package core

import (
	"context"
	"time"
)

// AuditSeverity grades audit events
type AuditSeverity string

const (
	SeverityInfo       AuditSeverity = "info"
	SeverityWarning    AuditSeverity = "warning"
	SeveritySuspicious AuditSeverity = "suspicious"
	SeverityCritical   AuditSeverity = "critical"
)

// Audit actions emitted by the economy
const (
	AuditBoosterOpened            = "booster_opened"
	AuditBoosterPurchased         = "booster_purchased"
	AuditCardSold                 = "card_sold"
	AuditDailyRewardClaimed       = "daily_reward_claimed"
	AuditAchievementClaimed       = "achievement_claimed"
	AuditNotificationClaimed      = "notification_reward_claimed"
	AuditListingCreated           = "listing_created"
	AuditListingCancelled         = "listing_cancelled"
	AuditListingAutoCancelled     = "listing_auto_cancelled"
	AuditListingPurchased         = "listing_purchased"
	AuditOperationRejected        = "operation_rejected"
	AuditRateLimited              = "rate_limited"
	AuditSuspicionIncreased       = "suspicion_increased"
	AuditAutomationDetected       = "automation_detected"
	AuditAccountBlocked           = "account_blocked"
	AuditSuspiciousBlockedAttempt = "suspicious_blocked_attempt"
)

// AuditEvent is a structured, fire-and-forget record of an economy or gate action
type AuditEvent struct {
	ID        string
	Action    string
	AccountID uint64
	Severity  AuditSeverity
	Details   map[string]any
	At        time.Time
}

// AuditSink accepts audit events. Record must never block the caller
// for longer than a buffered hand-off and must never return an error.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}
