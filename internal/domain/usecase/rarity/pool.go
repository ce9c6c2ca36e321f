package rarity

import (
	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

type altMode int

const (
	altAny altMode = iota
	altOnly
	altNone
)

type poolKey struct {
	rarity entity.Rarity // empty means any tier
	scope  string        // empty means any scope
	alt    altMode
}

// Pool is an indexed, immutable snapshot of the active catalog
type Pool struct {
	cards []entity.Card
	index map[poolKey][]int
}

// NewPool indexes the active cards among cards
func NewPool(cards []entity.Card) *Pool {
	p := &Pool{index: make(map[poolKey][]int)}
	for _, c := range cards {
		if !c.Active || !c.Rarity.Valid() {
			continue
		}
		i := len(p.cards)
		p.cards = append(p.cards, c)

		scopes := []string{""}
		if c.ScopeID != "" {
			scopes = append(scopes, c.ScopeID)
		}
		modes := []altMode{altAny, altNone}
		if c.Alternate {
			modes[1] = altOnly
		}
		for _, scope := range scopes {
			p.index[poolKey{scope: scope, alt: altAny}] = append(p.index[poolKey{scope: scope, alt: altAny}], i)
			for _, mode := range modes {
				key := poolKey{rarity: c.Rarity, scope: scope, alt: mode}
				p.index[key] = append(p.index[key], i)
			}
		}
	}
	return p
}

// Size returns the number of active cards
func (p *Pool) Size() int {
	return len(p.cards)
}

// Empty reports whether the pool has no active card
func (p *Pool) Empty() bool {
	return len(p.cards) == 0
}

// Count returns the number of active cards of a tier in scope (empty scope for all)
func (p *Pool) Count(r entity.Rarity, scope string) int {
	return len(p.index[poolKey{rarity: r, scope: scope, alt: altAny}])
}

// HasAlternates reports whether the tier has any alternate-art card
func (p *Pool) HasAlternates(r entity.Rarity) bool {
	return len(p.index[poolKey{rarity: r, alt: altOnly}]) > 0
}

func (p *Pool) candidates(key poolKey) []int {
	return p.index[key]
}

func (p *Pool) card(i int) entity.Card {
	return p.cards[i]
}
