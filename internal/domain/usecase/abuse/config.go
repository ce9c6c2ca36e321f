package abuse

import (
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

// Score penalties
const (
	PenaltyPerMinute  = 10
	PenaltyPerHour    = 20
	PenaltyMinDelay   = 5
	PenaltyAutomation = 30
)

// Rejection reasons
const (
	ReasonBlocked    = "blocked"
	ReasonPerMinute  = "per_minute"
	ReasonPerHour    = "per_hour"
	ReasonMinDelay   = "min_delay"
	ReasonSuspicion  = "suspicion_ceiling"
	DecisionAccepted = "accepted"
)

// ActionLimit bounds one action type. Zero values disable a check.
type ActionLimit struct {
	PerMinute int
	PerHour   int
	MinDelay  time.Duration
}

// Config parameterizes the gate
type Config struct {
	Ceiling              float64
	BlockDuration        time.Duration
	DecayPerAccept       float64
	AutomationMinSamples int
	AutomationMaxStdDev  time.Duration
	AutomationMaxMean    time.Duration
	Window               time.Duration
	SweepInterval        time.Duration
	IdleAfter            time.Duration
	Limits               map[string]ActionLimit
	DefaultLimit         ActionLimit
}

// DefaultConfig returns stock gate settings
func DefaultConfig() Config {
	return Config{
		Ceiling:              100,
		BlockDuration:        30 * time.Minute,
		DecayPerAccept:       1,
		AutomationMinSamples: 10,
		AutomationMaxStdDev:  100 * time.Millisecond,
		AutomationMaxMean:    10 * time.Second,
		Window:               time.Hour,
		SweepInterval:        time.Hour,
		IdleAfter:            time.Hour,
		Limits: map[string]ActionLimit{
			usecase.ActionOpenBooster:       {PerMinute: 10, PerHour: 120, MinDelay: 500 * time.Millisecond},
			usecase.ActionBuyBooster:        {PerMinute: 10, PerHour: 120, MinDelay: 500 * time.Millisecond},
			usecase.ActionSellCard:          {PerMinute: 30, PerHour: 600, MinDelay: 200 * time.Millisecond},
			usecase.ActionClaimDaily:        {PerMinute: 5, PerHour: 30, MinDelay: time.Second},
			usecase.ActionClaimAchievement:  {PerMinute: 10, PerHour: 120, MinDelay: 250 * time.Millisecond},
			usecase.ActionClaimNotification: {PerMinute: 10, PerHour: 120, MinDelay: 250 * time.Millisecond},
			usecase.ActionCreateListing:     {PerMinute: 10, PerHour: 100, MinDelay: time.Second},
			usecase.ActionPurchaseListing:   {PerMinute: 20, PerHour: 300, MinDelay: 250 * time.Millisecond},
			usecase.ActionCancelListing:     {PerMinute: 10, PerHour: 100, MinDelay: 500 * time.Millisecond},
		},
		DefaultLimit: ActionLimit{PerMinute: 30, PerHour: 600},
	}
}

// LimitFor returns the limit of an action, falling back to DefaultLimit
func (c Config) LimitFor(action string) ActionLimit {
	if limit, ok := c.Limits[action]; ok {
		return limit
	}
	return c.DefaultLimit
}

// AutomationMeanFor returns the mean-delay threshold of the automation check for limit.
// A capped action cannot average less than a minute over PerMinute between stamps, so the
// threshold never drops below twice that spacing.
func (c Config) AutomationMeanFor(limit ActionLimit) time.Duration {
	threshold := c.AutomationMaxMean
	if limit.PerMinute > 0 {
		threshold = max(threshold, 2*time.Minute/time.Duration(limit.PerMinute))
	}
	return threshold
}
