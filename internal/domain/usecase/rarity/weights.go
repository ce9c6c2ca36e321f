package rarity

import (
	"fmt"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// Weight is the relative draw weight of one tier
type Weight struct {
	Rarity entity.Rarity
	Weight float64
}

// WeightTable is an ordered, validated list of tier weights
type WeightTable struct {
	entries []Weight
	total   float64
}

// DefaultWeights returns the stock distribution, lowest tier first
func DefaultWeights() []Weight {
	return []Weight{
		{Rarity: entity.RarityCommon, Weight: 60},
		{Rarity: entity.RarityUncommon, Weight: 25},
		{Rarity: entity.RarityRare, Weight: 10},
		{Rarity: entity.RarityLeader, Weight: 3},
		{Rarity: entity.RaritySuperRare, Weight: 1.5},
		{Rarity: entity.RaritySecretRare, Weight: 0.5},
	}
}

// NewWeightTable validates weights: every tier known, listed once, weight > 0.
// The order given is the order cumulative sums are taken in.
func NewWeightTable(weights []Weight) (*WeightTable, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("weight table is empty")
	}

	seen := make(map[entity.Rarity]bool, len(weights))
	table := &WeightTable{entries: make([]Weight, 0, len(weights))}
	for _, w := range weights {
		if !w.Rarity.Valid() {
			return nil, fmt.Errorf("weight table: unknown rarity %q", w.Rarity)
		}
		if seen[w.Rarity] {
			return nil, fmt.Errorf("weight table: duplicate rarity %q", w.Rarity)
		}
		if !(w.Weight > 0) {
			return nil, fmt.Errorf("weight table: rarity %q has non-positive weight %v", w.Rarity, w.Weight)
		}
		seen[w.Rarity] = true
		table.entries = append(table.entries, w)
		table.total += w.Weight
	}
	return table, nil
}

// Entries returns a copy of the ordered weights
func (t *WeightTable) Entries() []Weight {
	out := make([]Weight, len(t.entries))
	copy(out, t.entries)
	return out
}

// Total returns the sum of all weights
func (t *WeightTable) Total() float64 {
	return t.total
}

// Probability returns the share of one tier, 0 when it is not in the table
func (t *WeightTable) Probability(r entity.Rarity) float64 {
	for _, w := range t.entries {
		if w.Rarity == r {
			return w.Weight / t.total
		}
	}
	return 0
}

// Pick maps u in [0, 1) to a tier by cumulative weight, skipping excluded tiers.
// Returns false when every tier is excluded.
func (t *WeightTable) Pick(u float64, excluded map[entity.Rarity]bool) (entity.Rarity, bool) {
	total := t.total
	if len(excluded) > 0 {
		total = 0
		for _, w := range t.entries {
			if !excluded[w.Rarity] {
				total += w.Weight
			}
		}
	}
	if total <= 0 {
		return "", false
	}

	target := u * total
	var cumulative float64
	var last entity.Rarity
	for _, w := range t.entries {
		if excluded[w.Rarity] {
			continue
		}
		cumulative += w.Weight
		last = w.Rarity
		if target < cumulative {
			return w.Rarity, true
		}
	}
	// Rounding can leave target == total
	return last, true
}
