package rarity

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSeededSource(seed uint64) *seededSource {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func fullCatalog() []entity.Card {
	var cards []entity.Card
	id := uint64(1)
	for _, r := range entity.Rarities {
		for i := 0; i < 4; i++ {
			cards = append(cards, entity.Card{ID: id, Name: string(r), Rarity: r, ScopeID: "base", Active: true})
			id++
		}
	}
	cards = append(cards,
		entity.Card{ID: id, Rarity: entity.RaritySuperRare, Alternate: true, ScopeID: "base", Active: true},
		entity.Card{ID: id + 1, Rarity: entity.RaritySecretRare, Alternate: true, ScopeID: "base", Active: true},
		entity.Card{ID: id + 2, Rarity: entity.RarityCommon, ScopeID: "base", Active: false},
	)
	return cards
}

func TestNewWeightTable(t *testing.T) {
	testCases := []struct {
		name    string
		weights []Weight
	}{
		{"empty", nil},
		{"zero weight", []Weight{{entity.RarityCommon, 0}}},
		{"negative weight", []Weight{{entity.RarityCommon, 10}, {entity.RarityRare, -1}}},
		{"duplicate tier", []Weight{{entity.RarityCommon, 10}, {entity.RarityCommon, 5}}},
		{"unknown tier", []Weight{{entity.Rarity("mythic"), 10}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWeightTable(tc.weights)
			assert.Error(t, err)
		})
	}

	t.Run("default table is valid", func(t *testing.T) {
		table, err := NewWeightTable(DefaultWeights())
		require.NoError(t, err)
		assert.InDelta(t, 100.0, table.Total(), 1e-9)
		assert.InDelta(t, 0.6, table.Probability(entity.RarityCommon), 1e-9)
	})
}

func TestWeightTablePick(t *testing.T) {
	table, err := NewWeightTable([]Weight{
		{entity.RarityCommon, 50},
		{entity.RarityRare, 30},
		{entity.RaritySecretRare, 20},
	})
	require.NoError(t, err)

	r, _ := table.Pick(0, nil)
	assert.Equal(t, entity.RarityCommon, r)
	r, _ = table.Pick(0.5, nil)
	assert.Equal(t, entity.RarityRare, r)
	r, _ = table.Pick(0.9999, nil)
	assert.Equal(t, entity.RaritySecretRare, r)

	t.Run("excluded tiers are skipped", func(t *testing.T) {
		r, ok := table.Pick(0, map[entity.Rarity]bool{entity.RarityCommon: true})
		assert.True(t, ok)
		assert.Equal(t, entity.RarityRare, r)

		_, ok = table.Pick(0.3, map[entity.Rarity]bool{
			entity.RarityCommon: true, entity.RarityRare: true, entity.RaritySecretRare: true,
		})
		assert.False(t, ok)
	})
}

func TestGeneratorDistribution(t *testing.T) {
	// Arrange
	gen, err := NewGenerator(DefaultConfig(), newSeededSource(42), nil)
	require.NoError(t, err)
	pool := NewPool(fullCatalog())
	const draws = 100_000

	// Act
	counts := make(map[entity.Rarity]int)
	for i := 0; i < draws; i++ {
		card, err := gen.Draw(pool, "")
		require.NoError(t, err)
		counts[card.Rarity]++
	}

	// Assert
	for _, w := range DefaultWeights() {
		expected := w.Weight / 100
		observed := float64(counts[w.Rarity]) / draws
		assert.InDelta(t, expected, observed, 0.01+expected*0.05, "tier %s", w.Rarity)
	}
	assert.Less(t, counts[entity.RaritySecretRare], counts[entity.RarityCommon])
}

func TestGeneratorFallback(t *testing.T) {
	t.Run("booster size holds when only one tier exists", func(t *testing.T) {
		// Arrange
		gen, err := NewGenerator(DefaultConfig(), newSeededSource(7), nil)
		require.NoError(t, err)
		pool := NewPool([]entity.Card{{ID: 1, Rarity: entity.RarityCommon, Active: true}})

		// Act
		for i := 0; i < 200; i++ {
			cards, err := gen.DrawN(pool, "", 5)

			// Assert
			require.NoError(t, err)
			require.Len(t, cards, 5)
			for _, c := range cards {
				assert.Equal(t, uint64(1), c.ID)
			}
		}
	})

	t.Run("scope is preserved when the tier exists in scope", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = []Weight{{entity.RarityRare, 1}}
		gen, err := NewGenerator(cfg, newSeededSource(8), nil)
		require.NoError(t, err)
		pool := NewPool([]entity.Card{
			{ID: 1, Rarity: entity.RarityRare, ScopeID: "a", Active: true},
			{ID: 2, Rarity: entity.RarityRare, ScopeID: "b", Active: true},
		})

		for i := 0; i < 100; i++ {
			card, err := gen.Draw(pool, "a")
			require.NoError(t, err)
			assert.Equal(t, "a", card.ScopeID)
		}
	})

	t.Run("scope is dropped before the tier", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = []Weight{{entity.RarityRare, 1}}
		gen, err := NewGenerator(cfg, newSeededSource(9), nil)
		require.NoError(t, err)
		pool := NewPool([]entity.Card{
			{ID: 1, Rarity: entity.RarityRare, ScopeID: "b", Active: true},
			{ID: 2, Rarity: entity.RarityCommon, ScopeID: "a", Active: true},
		})

		card, err := gen.Draw(pool, "a")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), card.ID)
	})

	t.Run("tier missing from the table falls back to any card in scope", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = []Weight{{entity.RaritySecretRare, 1}}
		gen, err := NewGenerator(cfg, newSeededSource(10), nil)
		require.NoError(t, err)
		pool := NewPool([]entity.Card{
			{ID: 1, Rarity: entity.RarityCommon, ScopeID: "a", Active: true},
			{ID: 2, Rarity: entity.RarityCommon, ScopeID: "b", Active: true},
		})

		for i := 0; i < 50; i++ {
			card, err := gen.Draw(pool, "a")
			require.NoError(t, err)
			assert.Equal(t, uint64(1), card.ID)
		}
	})

	t.Run("empty catalog fails", func(t *testing.T) {
		gen, err := NewGenerator(DefaultConfig(), newSeededSource(11), nil)
		require.NoError(t, err)

		_, err = gen.Draw(NewPool([]entity.Card{{ID: 1, Rarity: entity.RarityCommon, Active: false}}), "")
		assert.ErrorIs(t, err, errs.ErrCatalogEmpty)
	})
}

func TestGeneratorAlternates(t *testing.T) {
	pool := NewPool([]entity.Card{
		{ID: 1, Rarity: entity.RaritySuperRare, Active: true},
		{ID: 2, Rarity: entity.RaritySuperRare, Alternate: true, Active: true},
	})

	newGen := func(chance float64) *Generator {
		cfg := DefaultConfig()
		cfg.Weights = []Weight{{entity.RaritySuperRare, 1}}
		cfg.AlternateChance = chance
		gen, err := NewGenerator(cfg, newSeededSource(12), nil)
		require.NoError(t, err)
		return gen
	}

	t.Run("certain sub-roll always yields alternate art", func(t *testing.T) {
		gen := newGen(1)
		for i := 0; i < 50; i++ {
			card, err := gen.Draw(pool, "")
			require.NoError(t, err)
			assert.True(t, card.Alternate)
		}
	})

	t.Run("zero chance never yields alternate art", func(t *testing.T) {
		gen := newGen(0)
		for i := 0; i < 50; i++ {
			card, err := gen.Draw(pool, "")
			require.NoError(t, err)
			assert.False(t, card.Alternate)
		}
	})

	t.Run("ineligible tier never sub-rolls", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = []Weight{{entity.RarityRare, 1}}
		cfg.AlternateChance = 1
		gen, err := NewGenerator(cfg, newSeededSource(13), nil)
		require.NoError(t, err)
		rarePool := NewPool([]entity.Card{
			{ID: 1, Rarity: entity.RarityRare, Active: true},
			{ID: 2, Rarity: entity.RarityRare, Alternate: true, Active: true},
		})

		for i := 0; i < 50; i++ {
			card, err := gen.Draw(rarePool, "")
			require.NoError(t, err)
			assert.False(t, card.Alternate)
		}
	})

	t.Run("invalid chance is rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AlternateChance = 1.5
		_, err := NewGenerator(cfg, newSeededSource(14), nil)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestPoolIndex(t *testing.T) {
	pool := NewPool(fullCatalog())

	assert.Equal(t, 26, pool.Size())
	assert.Equal(t, 5, pool.Count(entity.RaritySuperRare, ""))
	assert.Equal(t, 4, pool.Count(entity.RarityCommon, "base"))
	assert.True(t, pool.HasAlternates(entity.RaritySecretRare))
	assert.False(t, pool.HasAlternates(entity.RarityRare))
}
