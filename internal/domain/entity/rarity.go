package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

// Rarity is an ordered card tier
type Rarity string

// Rarity tiers, lowest first
const (
	RarityCommon     Rarity = "common"
	RarityUncommon   Rarity = "uncommon"
	RarityRare       Rarity = "rare"
	RarityLeader     Rarity = "leader"
	RaritySuperRare  Rarity = "super_rare"
	RaritySecretRare Rarity = "secret_rare"
)

// Rarities lists every tier in ascending order
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityLeader,
	RaritySuperRare,
	RaritySecretRare,
}

// Rank returns the position of r in the tier order, or -1 for an unknown tier
func (r Rarity) Rank() int {
	for i, tier := range Rarities {
		if tier == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is a known tier
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// Less reports whether r is a lower tier than other
func (r Rarity) Less(other Rarity) bool {
	return r.Rank() < other.Rank()
}

func (r Rarity) String() string {
	return string(r)
}

// ParseRarity accepts a tier name in any case, with spaces or dashes for underscores
func ParseRarity(s string) (Rarity, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	r := Rarity(normalized)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown rarity %q", errs.ErrInvalidRequest, s)
	}
	return r, nil
}
