package config

import (
	"fmt"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/abuse"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/achievement"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/economy"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/marketplace"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/rarity"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/redis"
)

// Gate store backends
const (
	GateBackendMemory = "memory"
	GateBackendRedis  = "redis"
)

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// DatabaseSettings converts the database section for the database adapter
func (c *Config) DatabaseSettings() *database.Config {
	db := c.Database
	return &database.Config{
		Driver:          db.Driver,
		Host:            db.Host,
		Port:            db.Port,
		Username:        db.Username,
		Password:        db.Password,
		Database:        db.Database,
		SSLMode:         db.SSLMode,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		ConnMaxIdleTime: db.ConnMaxIdleTime,
		QueryTimeout:    db.QueryTimeout,
		SlowThreshold:   db.SlowThreshold,
		LogLevel:        db.LogLevel,
		RetryAttempts:   db.RetryAttempts,
		RetryDelay:      db.RetryDelay,
		MonitorInterval: db.MonitorInterval,
		SeedDemoCatalog: db.SeedDemoCatalog || c.Environment == Development,
	}
}

// TransactionSettings converts the transaction section for the economy engine
func (c *Config) TransactionSettings() economy.TxConfig {
	tx := economy.DefaultTxConfig()
	tx.MaxRetries = c.Transaction.MaxRetries
	if c.Transaction.RetryBackoff > 0 {
		tx.RetryBackoff = c.Transaction.RetryBackoff
	}
	if c.Transaction.Timeout > 0 {
		tx.Timeout = c.Transaction.Timeout
	}
	return tx
}

// EconomyRules converts the economy section. Sell prices not named keep their stock value.
func (c *Config) EconomyRules() (economy.Config, error) {
	rules := economy.DefaultConfig()
	e := c.Economy
	if e.MaxBalance > 0 {
		rules.MaxBalance = e.MaxBalance
	}
	if e.MaxAllotment > 0 {
		rules.MaxAllotment = e.MaxAllotment
	}
	if e.AllotmentInterval > 0 {
		rules.AllotmentInterval = e.AllotmentInterval
	}
	if e.BoosterSize > 0 {
		rules.BoosterSize = e.BoosterSize
	}
	if e.DailyReward > 0 {
		rules.DailyReward = e.DailyReward
	}
	if e.DailyCooldown > 0 {
		rules.DailyCooldown = e.DailyCooldown
	}
	if e.DailyPeriod > 0 {
		rules.DailyPeriod = e.DailyPeriod
	}
	rules.StartingBalance = e.StartingBalance

	for tier, price := range e.SellPrices {
		r, err := entity.ParseRarity(tier)
		if err != nil {
			return economy.Config{}, fmt.Errorf("sell price: %w", err)
		}
		rules.SellPrices[r] = price
	}
	if err := rules.Validate(); err != nil {
		return economy.Config{}, err
	}
	return rules, nil
}

// MarketplaceRules converts the listing settings of the economy section
func (c *Config) MarketplaceRules() marketplace.Config {
	rules := marketplace.DefaultConfig()
	e := c.Economy
	if e.MaxBalance > 0 {
		rules.MaxBalance = e.MaxBalance
	}
	if e.MaxListingPrice > 0 {
		rules.MaxListingPrice = e.MaxListingPrice
	}
	if e.ListingCap > 0 {
		rules.ListingCap = e.ListingCap
	}
	if e.ListingPageSize > 0 {
		rules.DefaultPageSize = e.ListingPageSize
	}
	if e.ListingMaxPageSize > 0 {
		rules.MaxPageSize = e.ListingMaxPageSize
	}
	if rules.DefaultPageSize > rules.MaxPageSize {
		rules.DefaultPageSize = rules.MaxPageSize
	}
	return rules
}

// GeneratorSettings converts the rarity section. An empty weight list keeps the stock table.
func (c *Config) GeneratorSettings() (rarity.Config, error) {
	settings := rarity.DefaultConfig()
	r := c.Rarity

	if len(r.Weights) > 0 {
		weights := make([]rarity.Weight, 0, len(r.Weights))
		for _, w := range r.Weights {
			tier, err := entity.ParseRarity(w.Rarity)
			if err != nil {
				return rarity.Config{}, fmt.Errorf("rarity weight: %w", err)
			}
			weights = append(weights, rarity.Weight{Rarity: tier, Weight: w.Weight})
		}
		settings.Weights = weights
	}

	if len(r.AlternateTiers) > 0 {
		tiers := make([]entity.Rarity, 0, len(r.AlternateTiers))
		for _, name := range r.AlternateTiers {
			tier, err := entity.ParseRarity(name)
			if err != nil {
				return rarity.Config{}, fmt.Errorf("alternate tier: %w", err)
			}
			tiers = append(tiers, tier)
		}
		settings.AlternateTiers = tiers
	}

	settings.AlternateChance = r.AlternateChance
	if r.MaxAttempts > 0 {
		settings.MaxAttempts = r.MaxAttempts
	}
	return settings, nil
}

// GateSettings converts the abuse section. Actions not named keep their stock limits.
func (c *Config) GateSettings() abuse.Config {
	settings := abuse.DefaultConfig()
	a := c.Abuse
	if a.Ceiling > 0 {
		settings.Ceiling = a.Ceiling
	}
	if a.BlockDuration > 0 {
		settings.BlockDuration = a.BlockDuration
	}
	if a.DecayPerAccept >= 0 {
		settings.DecayPerAccept = a.DecayPerAccept
	}
	if a.Window > 0 {
		settings.Window = a.Window
	}
	if a.SweepInterval > 0 {
		settings.SweepInterval = a.SweepInterval
	}
	if a.IdleAfter > 0 {
		settings.IdleAfter = a.IdleAfter
	}
	if a.AutomationMinSamples > 0 {
		settings.AutomationMinSamples = a.AutomationMinSamples
	}
	if a.AutomationMaxStdDev > 0 {
		settings.AutomationMaxStdDev = a.AutomationMaxStdDev
	}
	if a.AutomationMaxMean > 0 {
		settings.AutomationMaxMean = a.AutomationMaxMean
	}
	for action, limit := range a.Limits {
		settings.Limits[action] = abuse.ActionLimit{
			PerMinute: limit.PerMinute,
			PerHour:   limit.PerHour,
			MinDelay:  limit.MinDelay,
		}
	}
	return settings
}

// TrackerSettings converts the achievement section
func (c *Config) TrackerSettings() achievement.Config {
	settings := achievement.DefaultConfig()
	settings.Async = c.Achievement.Async
	if c.Achievement.Timeout > 0 {
		settings.Timeout = c.Achievement.Timeout
	}
	if c.Economy.MaxBalance > 0 {
		settings.MaxBalance = c.Economy.MaxBalance
	}
	return settings
}

// RedisOptions converts the redis section. Gate trackers expire once idle and unblocked.
func (c *Config) RedisOptions() redis.Options {
	gate := c.GateSettings()
	return redis.Options{
		Addr:       c.Redis.Addr,
		Password:   c.Redis.Password,
		DB:         c.Redis.DB,
		KeyPrefix:  c.Redis.KeyPrefix,
		TTL:        max(gate.IdleAfter, gate.BlockDuration),
		MaxRetries: c.Redis.MaxRetries,
	}
}
