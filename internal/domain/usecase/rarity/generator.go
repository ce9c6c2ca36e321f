package rarity

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
)

// Fallback steps reported with every drawn card
const (
	FallbackNone       = "none"
	FallbackAlternate  = "alternate"
	FallbackScope      = "scope"
	FallbackReroll     = "reroll"
	FallbackAnyInScope = "any_in_scope"
	FallbackAny        = "any"
)

// Config parameterizes a Generator
type Config struct {
	Weights         []Weight
	AlternateChance float64
	AlternateTiers  []entity.Rarity
	MaxAttempts     int
}

// DefaultConfig returns the stock generator settings
func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		AlternateChance: 0.10,
		AlternateTiers:  []entity.Rarity{entity.RaritySuperRare, entity.RaritySecretRare},
		MaxAttempts:     10,
	}
}

// PoolSource supplies the current active catalog
type PoolSource interface {
	Pool(ctx context.Context) (*Pool, error)
}

// Generator draws cards by weighted tier
type Generator struct {
	weights         *WeightTable
	alternateChance float64
	alternateTiers  map[entity.Rarity]bool
	maxAttempts     int
	rng             coreport.RandomSource
	metrics         coreport.Metrics
}

// NewGenerator validates cfg and builds a Generator
func NewGenerator(cfg Config, rng coreport.RandomSource, metrics coreport.Metrics) (*Generator, error) {
	table, err := NewWeightTable(cfg.Weights)
	if err != nil {
		return nil, err
	}
	if cfg.AlternateChance < 0 || cfg.AlternateChance > 1 {
		return nil, errs.ErrInvalidRequest
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	tiers := make(map[entity.Rarity]bool, len(cfg.AlternateTiers))
	for _, r := range cfg.AlternateTiers {
		tiers[r] = true
	}

	return &Generator{
		weights:         table,
		alternateChance: cfg.AlternateChance,
		alternateTiers:  tiers,
		maxAttempts:     maxAttempts,
		rng:             rng,
		metrics:         metrics,
	}, nil
}

// Weights returns the validated weight table
func (g *Generator) Weights() *WeightTable {
	return g.weights
}

// Draw selects one card. Only an empty pool makes it fail.
func (g *Generator) Draw(pool *Pool, scope string) (entity.Card, error) {
	card, step, err := g.draw(pool, scope)
	if err != nil {
		return entity.Card{}, err
	}
	if g.metrics != nil {
		g.metrics.CardDrawn(string(card.Rarity), step)
	}
	return card, nil
}

// DrawN draws n cards independently, with replacement
func (g *Generator) DrawN(pool *Pool, scope string, n int) ([]entity.Card, error) {
	cards := make([]entity.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := g.Draw(pool, scope)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (g *Generator) draw(pool *Pool, scope string) (entity.Card, string, error) {
	if pool == nil || pool.Empty() {
		return entity.Card{}, "", errs.ErrCatalogEmpty
	}

	exhausted := make(map[entity.Rarity]bool)
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		tier, ok := g.weights.Pick(g.rng.Float64(), exhausted)
		if !ok {
			break
		}

		wantAlt := altNone
		if g.alternateTiers[tier] && pool.HasAlternates(tier) && g.rng.Float64() < g.alternateChance {
			wantAlt = altOnly
		}

		steps := []struct {
			key  poolKey
			step string
		}{
			{poolKey{rarity: tier, scope: scope, alt: wantAlt}, FallbackNone},
			{poolKey{rarity: tier, scope: scope, alt: altAny}, FallbackAlternate},
			{poolKey{rarity: tier, alt: altAny}, FallbackScope},
		}
		for _, s := range steps {
			if candidates := pool.candidates(s.key); len(candidates) > 0 {
				step := s.step
				if attempt > 0 {
					step = FallbackReroll
				}
				return pool.card(candidates[g.rng.Intn(len(candidates))]), step, nil
			}
		}
		exhausted[tier] = true
	}

	if candidates := pool.candidates(poolKey{scope: scope, alt: altAny}); scope != "" && len(candidates) > 0 {
		return pool.card(candidates[g.rng.Intn(len(candidates))]), FallbackAnyInScope, nil
	}
	candidates := pool.candidates(poolKey{alt: altAny})
	return pool.card(candidates[g.rng.Intn(len(candidates))]), FallbackAny, nil
}
