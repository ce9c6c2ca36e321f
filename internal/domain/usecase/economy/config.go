package economy

import (
	"fmt"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// Config holds the economy rules
type Config struct {
	MaxBalance        int64
	MaxAllotment      int
	AllotmentInterval time.Duration
	BoosterSize       int
	StartingBalance   int64
	DailyReward       int64
	DailyCooldown     time.Duration
	DailyPeriod       time.Duration
	SellPrices        map[entity.Rarity]int64
}

// DefaultConfig returns stock economy rules
func DefaultConfig() Config {
	return Config{
		MaxBalance:        1_000_000_000,
		MaxAllotment:      3,
		AllotmentInterval: 12 * time.Hour,
		BoosterSize:       5,
		StartingBalance:   0,
		DailyReward:       100,
		DailyCooldown:     24 * time.Hour,
		DailyPeriod:       24 * time.Hour,
		SellPrices: map[entity.Rarity]int64{
			entity.RarityCommon:     1,
			entity.RarityUncommon:   3,
			entity.RarityRare:       10,
			entity.RarityLeader:     25,
			entity.RaritySuperRare:  50,
			entity.RaritySecretRare: 200,
		},
	}
}

// SellPrice returns the system buy-back price of one card of a tier
func (c Config) SellPrice(r entity.Rarity) int64 {
	return c.SellPrices[r]
}

// Validate rejects rules that would let a tier sell for nothing or a booster hold no cards
func (c Config) Validate() error {
	if c.BoosterSize <= 0 {
		return fmt.Errorf("booster size must be positive, got %d", c.BoosterSize)
	}
	if c.StartingBalance < 0 || c.StartingBalance > c.MaxBalance {
		return fmt.Errorf("starting balance %d outside [0, %d]", c.StartingBalance, c.MaxBalance)
	}
	for _, tier := range entity.Rarities {
		if price := c.SellPrices[tier]; price <= 0 {
			return fmt.Errorf("sell price of %s must be positive, got %d", tier, price)
		}
	}
	return nil
}
