package entity

import "time"

// Card is a read-only catalog entry
type Card struct {
	ID        uint64 // Catalog identifier
	Name      string
	Rarity    Rarity
	Alternate bool   // Alternate-art variant
	ScopeID   string // Owning pack, empty when the card belongs to no pack
	Active    bool
}

// InScope reports whether the card belongs to scope. An empty scope matches every card.
func (c *Card) InScope(scope string) bool {
	return scope == "" || c.ScopeID == scope
}

// Booster is a read-only pack definition
type Booster struct {
	ID      uint64
	Name    string
	ScopeID string // Restricts generated cards to this pack when set
	Price   int64  // Currency price when bought instead of opened from allotment
	Active  bool
}

// OpeningSource tells how a booster opening was paid for
type OpeningSource string

const (
	SourceAllotment OpeningSource = "allotment"
	SourceCurrency  OpeningSource = "currency"
)

// BoosterOpening is an append-only record of one opened booster
type BoosterOpening struct {
	ID        string
	AccountID uint64
	BoosterID uint64
	CardIDs   []uint64
	Source    OpeningSource
	OpenedAt  time.Time
}
