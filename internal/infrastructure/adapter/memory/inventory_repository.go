package memory

import (
	"context"
	"slices"
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
)

type inventoryRepository struct {
	store *Store
}

func (r *inventoryRepository) Get(ctx context.Context, accountID, cardID uint64) (*entity.InventoryEntry, error) {
	var out *entity.InventoryEntry
	err := r.store.run(ctx, func(st *state) error {
		entry, ok := st.inventory[inventoryKey{accountID, cardID}]
		if !ok {
			return errs.ErrNotOwned
		}
		out = &entry
		return nil
	})
	return out, err
}

func (r *inventoryRepository) Add(ctx context.Context, accountID, cardID uint64, quantity int, now time.Time) error {
	if quantity <= 0 {
		return errs.ErrInvalidQuantity
	}
	return r.store.run(ctx, func(st *state) error {
		key := inventoryKey{accountID, cardID}
		entry, ok := st.inventory[key]
		if !ok {
			entry = entity.InventoryEntry{AccountID: accountID, CardID: cardID, FirstAcquiredAt: now}
		}
		entry.Quantity += quantity
		entry.LastAcquiredAt = now
		st.inventory[key] = entry
		return nil
	})
}

func (r *inventoryRepository) Remove(ctx context.Context, accountID, cardID uint64, quantity, keep int) error {
	if quantity <= 0 || keep < 0 {
		return errs.ErrInvalidQuantity
	}
	return r.store.run(ctx, func(st *state) error {
		key := inventoryKey{accountID, cardID}
		entry, ok := st.inventory[key]
		if !ok || entry.Quantity < quantity+keep {
			return errs.ErrNotOwned
		}
		entry.Quantity -= quantity
		st.inventory[key] = entry
		return nil
	})
}

func (r *inventoryRepository) SetFavorite(ctx context.Context, accountID, cardID uint64, favorite bool) error {
	return r.store.run(ctx, func(st *state) error {
		key := inventoryKey{accountID, cardID}
		entry, ok := st.inventory[key]
		if !ok || entry.Quantity == 0 {
			return errs.ErrNotOwned
		}
		entry.Favorite = favorite
		st.inventory[key] = entry
		return nil
	})
}

func (r *inventoryRepository) ListByAccount(ctx context.Context, accountID uint64) ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	err := r.store.run(ctx, func(st *state) error {
		for key, entry := range st.inventory {
			if key.accountID != accountID || entry.Quantity == 0 {
				continue
			}
			out = append(out, entity.InventoryItem{InventoryEntry: entry, Card: st.cards[key.cardID]})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.InventoryItem) int { return compareID(a.CardID, b.CardID) })
	return out, err
}

func (r *inventoryRepository) CountDistinct(ctx context.Context, accountID uint64) (int, error) {
	return r.countDistinct(ctx, accountID, func(entity.Card) bool { return true })
}

func (r *inventoryRepository) CountDistinctInScope(ctx context.Context, accountID uint64, scopeID string) (int, error) {
	return r.countDistinct(ctx, accountID, func(c entity.Card) bool { return c.ScopeID == scopeID })
}

func (r *inventoryRepository) countDistinct(ctx context.Context, accountID uint64, match func(entity.Card) bool) (int, error) {
	count := 0
	err := r.store.run(ctx, func(st *state) error {
		for key, entry := range st.inventory {
			if key.accountID == accountID && entry.Quantity > 0 && match(st.cards[key.cardID]) {
				count++
			}
		}
		return nil
	})
	return count, err
}
