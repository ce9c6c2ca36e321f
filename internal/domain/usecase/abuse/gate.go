package abuse

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
)

// Gate is the per-account sliding-window rate limiter and suspicion scorer.
// It is advisory: economic correctness never depends on it.
type Gate struct {
	cfg     Config
	store   persistence.TrackerStore
	clock   coreport.TimeProvider
	audit   coreport.AuditSink
	metrics coreport.Metrics
	logger  coreport.Logger
}

// NewGate creates a gate over store
func NewGate(
	cfg Config,
	store persistence.TrackerStore,
	clock coreport.TimeProvider,
	audit coreport.AuditSink,
	metrics coreport.Metrics,
	logger coreport.Logger,
) *Gate {
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	return &Gate{cfg: cfg, store: store, clock: clock, audit: audit, metrics: metrics, logger: logger}
}

type decision struct {
	reason     string
	err        error
	retryAfter time.Duration
	scoreDelta float64
	score      float64
	automation bool
	blocked    bool
}

// Check implements usecase.Gatekeeper
func (g *Gate) Check(ctx context.Context, accountID uint64, action string) error {
	now := g.clock.Now()
	var d decision

	err := g.store.Update(ctx, accountID, func(t *entity.AbuseTracker) {
		d = g.evaluate(t, action, now)
	})
	if err != nil {
		// Fail open
		g.logger.Error("Abuse tracker update failed, allowing action", map[string]any{
			"account_id": accountID,
			"action":     action,
			"error":      err.Error(),
		})
		g.metrics.GateDecision(action, "store_error")
		return nil
	}

	g.report(ctx, accountID, action, now, d)
	if d.err == nil {
		g.metrics.GateDecision(action, DecisionAccepted)
		return nil
	}

	g.metrics.GateDecision(action, d.reason)
	return &errs.RateLimitedError{
		AccountID:  accountID,
		Action:     action,
		Reason:     d.reason,
		Score:      d.score,
		RetryAfter: d.retryAfter,
		Err:        d.err,
	}
}

// evaluate runs one attempt against the tracker state. It must not block.
func (g *Gate) evaluate(t *entity.AbuseTracker, action string, now time.Time) decision {
	t.LastSeen = now

	if t.Blocked(now) {
		return decision{reason: ReasonBlocked, err: errs.ErrBlocked, retryAfter: t.BlockedUntil.Sub(now), score: t.Score}
	}
	if t.BlockedUntil != nil {
		// Block served
		t.BlockedUntil = nil
		t.Score = 0
	}

	t.Prune(now, g.cfg.Window)
	limit := g.cfg.LimitFor(action)
	var d decision

	if limit.PerMinute > 0 && t.CountSince(action, now.Add(-time.Minute)) >= limit.PerMinute {
		d = decision{reason: ReasonPerMinute, err: errs.ErrRateLimited, scoreDelta: PenaltyPerMinute,
			retryAfter: retryAfterWindow(t.Actions[action], now, time.Minute)}
	} else if limit.PerHour > 0 && t.CountSince(action, now.Add(-g.cfg.Window)) >= limit.PerHour {
		d = decision{reason: ReasonPerHour, err: errs.ErrRateLimited, scoreDelta: PenaltyPerHour,
			retryAfter: retryAfterWindow(t.Actions[action], now, g.cfg.Window)}
	} else if last, ok := t.Last(action); ok && limit.MinDelay > 0 && now.Sub(last) < limit.MinDelay {
		d = decision{reason: ReasonMinDelay, err: errs.ErrRateLimited, scoreDelta: PenaltyMinDelay,
			retryAfter: limit.MinDelay - now.Sub(last)}
	} else if g.looksAutomated(t.Actions[action], now, g.cfg.AutomationMeanFor(limit)) {
		d = decision{automation: true, scoreDelta: PenaltyAutomation}
	}

	t.Score += d.scoreDelta

	if t.Score >= g.cfg.Ceiling {
		until := now.Add(g.cfg.BlockDuration)
		t.BlockedUntil = &until
		return decision{
			reason:     ReasonSuspicion,
			err:        errs.ErrBlocked,
			retryAfter: g.cfg.BlockDuration,
			scoreDelta: d.scoreDelta,
			score:      t.Score,
			automation: d.automation,
			blocked:    true,
		}
	}

	if d.err == nil {
		t.Actions[action] = append(t.Actions[action], now)
		t.Score = math.Max(0, t.Score-g.cfg.DecayPerAccept)
	}
	d.score = t.Score
	return d
}

// looksAutomated tests the inter-action delays of the most recent samples, including this attempt
func (g *Gate) looksAutomated(stamps []time.Time, now time.Time, maxMean time.Duration) bool {
	n := g.cfg.AutomationMinSamples
	if n <= 1 || len(stamps) < n {
		return false
	}

	recent := append(append([]time.Time(nil), stamps[len(stamps)-n:]...), now)
	intervals := make([]float64, 0, n)
	var sum float64
	for i := 1; i < len(recent); i++ {
		gap := float64(recent[i].Sub(recent[i-1]))
		intervals = append(intervals, gap)
		sum += gap
	}
	mean := sum / float64(len(intervals))

	var variance float64
	for _, gap := range intervals {
		variance += (gap - mean) * (gap - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(intervals)))

	return stdDev < float64(g.cfg.AutomationMaxStdDev) && mean < float64(maxMean)
}

// retryAfterWindow returns when the oldest stamp inside the window leaves it
func retryAfterWindow(stamps []time.Time, now time.Time, window time.Duration) time.Duration {
	cutoff := now.Add(-window)
	for _, s := range stamps {
		if s.After(cutoff) {
			return s.Add(window).Sub(now)
		}
	}
	return window
}

func (g *Gate) report(ctx context.Context, accountID uint64, action string, now time.Time, d decision) {
	details := map[string]any{
		"action": action,
		"score":  d.score,
	}
	if d.reason != "" {
		details["reason"] = d.reason
		details["retry_after"] = d.retryAfter.String()
	}

	emit := func(auditAction string, severity coreport.AuditSeverity) {
		g.audit.Record(ctx, coreport.AuditEvent{
			ID:        uuid.NewString(),
			Action:    auditAction,
			AccountID: accountID,
			Severity:  severity,
			Details:   details,
			At:        now,
		})
	}

	switch {
	case d.reason == ReasonBlocked:
		emit(coreport.AuditSuspiciousBlockedAttempt, coreport.SeveritySuspicious)
	case d.err != nil && d.reason != ReasonSuspicion:
		emit(coreport.AuditRateLimited, coreport.SeverityWarning)
	}
	if d.automation {
		emit(coreport.AuditAutomationDetected, coreport.SeveritySuspicious)
	}
	if d.scoreDelta > 0 {
		emit(coreport.AuditSuspicionIncreased, coreport.SeverityWarning)
	}
	if d.blocked {
		emit(coreport.AuditAccountBlocked, coreport.SeverityCritical)
		g.logger.Warn("Account blocked by abuse gate", map[string]any{
			"account_id": accountID,
			"action":     action,
			"score":      d.score,
			"until":      now.Add(d.retryAfter),
		})
		return
	}

	if d.err != nil {
		g.logger.Warn("Action rejected by abuse gate", map[string]any{
			"account_id":  accountID,
			"action":      action,
			"reason":      d.reason,
			"score":       d.score,
			"retry_after": d.retryAfter.String(),
		})
	}
}

// Sweep removes idle, unblocked trackers
func (g *Gate) Sweep(ctx context.Context) (int, error) {
	removed, err := g.store.Sweep(ctx, g.clock.Now(), g.cfg.IdleAfter)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep abuse trackers: %w", err)
	}
	return removed, nil
}

// Run sweeps on SweepInterval until ctx is done
func (g *Gate) Run(ctx context.Context) {
	interval := g.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.logger.Info("Abuse tracker sweeper started", map[string]any{"interval": interval.String()})
	for {
		select {
		case <-ctx.Done():
			g.logger.Info("Abuse tracker sweeper stopped", nil)
			return
		case <-ticker.C:
			removed, err := g.Sweep(ctx)
			if err != nil {
				g.logger.Error("Abuse tracker sweep failed", map[string]any{"error": err.Error()})
				continue
			}
			g.logger.Debug("Abuse trackers swept", map[string]any{"removed": removed})
		}
	}
}
