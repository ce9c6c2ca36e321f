package memory

import (
	"context"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
)

// Catalog importers and tests load reference data through these helpers.

func (s *Store) PutCards(cards ...entity.Card) {
	_ = s.run(context.Background(), func(st *state) error {
		for _, c := range cards {
			st.cards[c.ID] = c
		}
		return nil
	})
}

func (s *Store) PutBoosters(boosters ...entity.Booster) {
	_ = s.run(context.Background(), func(st *state) error {
		for _, b := range boosters {
			st.boosters[b.ID] = b
		}
		return nil
	})
}

func (s *Store) PutAchievements(achievements ...entity.Achievement) {
	_ = s.run(context.Background(), func(st *state) error {
		for _, a := range achievements {
			st.achievements[a.ID] = a
		}
		return nil
	})
}

func (s *Store) PutAccounts(accounts ...entity.Account) {
	_ = s.run(context.Background(), func(st *state) error {
		for _, a := range accounts {
			st.accounts[a.ID] = a
		}
		return nil
	})
}

// PutInventory sets the held quantity of a card
func (s *Store) PutInventory(accountID, cardID uint64, quantity int) {
	_ = s.run(context.Background(), func(st *state) error {
		key := inventoryKey{accountID: accountID, cardID: cardID}
		entry := st.inventory[key]
		entry.AccountID, entry.CardID, entry.Quantity = accountID, cardID, quantity
		st.inventory[key] = entry
		return nil
	})
}
