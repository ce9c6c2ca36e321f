package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/model"
)

// Catalog is the read-only reference data an importer loads
type Catalog struct {
	Cards        []entity.Card
	Boosters     []entity.Booster
	Achievements []entity.Achievement
}

const (
	demoScopeBase   = "base-set"
	demoScopeShadow = "shadow-pack"
)

// DemoCatalog returns a small catalog with every tier represented in both demo packs
func DemoCatalog() Catalog {
	var cards []entity.Card
	id := uint64(1)
	for _, scope := range []string{demoScopeBase, demoScopeShadow} {
		for _, tier := range entity.Rarities {
			copies := 1
			switch tier {
			case entity.RarityCommon:
				copies = 4
			case entity.RarityUncommon:
				copies = 3
			case entity.RarityRare:
				copies = 2
			}
			for n := 1; n <= copies; n++ {
				cards = append(cards, entity.Card{
					ID:      id,
					Name:    fmt.Sprintf("%s %s #%d", scope, tier, n),
					Rarity:  tier,
					ScopeID: scope,
					Active:  true,
				})
				id++
			}
			if tier == entity.RarityRare || tier == entity.RaritySuperRare || tier == entity.RaritySecretRare {
				cards = append(cards, entity.Card{
					ID:        id,
					Name:      fmt.Sprintf("%s %s (alternate art)", scope, tier),
					Rarity:    tier,
					Alternate: true,
					ScopeID:   scope,
					Active:    true,
				})
				id++
			}
		}
	}

	return Catalog{
		Cards: cards,
		Boosters: []entity.Booster{
			{ID: 1, Name: "Base Set Booster", ScopeID: demoScopeBase, Price: 100, Active: true},
			{ID: 2, Name: "Shadow Booster", ScopeID: demoScopeShadow, Price: 150, Active: true},
			{ID: 3, Name: "Mixed Booster", Price: 120, Active: true},
		},
		Achievements: []entity.Achievement{
			{ID: 1, Name: "First Steps", Kind: entity.KindBoostersOpened, Threshold: 1, Reward: 50, Active: true},
			{ID: 2, Name: "Pack Rat", Kind: entity.KindBoostersOpened, Threshold: 25, Reward: 500, Active: true},
			{ID: 3, Name: "Collector", Kind: entity.KindDistinctCards, Threshold: 20, Reward: 1000, Active: true},
			{ID: 4, Name: "Into the Shadows", Kind: entity.KindScopeDistinctCards, ScopeID: demoScopeShadow, Threshold: 10, Reward: 800, Active: true},
		},
	}
}

// SeedCatalog inserts catalog rows that do not exist yet. Existing rows are left untouched.
func (m *MigrationManager) SeedCatalog(ctx context.Context, catalog Catalog) error {
	cards := make([]model.Card, 0, len(catalog.Cards))
	for _, c := range catalog.Cards {
		cards = append(cards, model.Card{
			ID:        c.ID,
			Name:      c.Name,
			Rarity:    string(c.Rarity),
			Alternate: c.Alternate,
			ScopeID:   c.ScopeID,
			Active:    c.Active,
		})
	}
	boosters := make([]model.Booster, 0, len(catalog.Boosters))
	for _, b := range catalog.Boosters {
		boosters = append(boosters, model.Booster{
			ID:      b.ID,
			Name:    b.Name,
			ScopeID: b.ScopeID,
			Price:   b.Price,
			Active:  b.Active,
		})
	}
	achievements := make([]model.Achievement, 0, len(catalog.Achievements))
	for _, a := range catalog.Achievements {
		achievements = append(achievements, model.Achievement{
			ID:        a.ID,
			Name:      a.Name,
			Kind:      string(a.Kind),
			ScopeID:   a.ScopeID,
			Threshold: a.Threshold,
			Reward:    a.Reward,
			Active:    a.Active,
		})
	}

	db := m.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true})
	for _, batch := range []struct {
		table string
		rows  any
		count int
	}{
		{"cards", &cards, len(cards)},
		{"boosters", &boosters, len(boosters)},
		{"achievements", &achievements, len(achievements)},
	} {
		if batch.count == 0 {
			continue
		}
		table := batch.table
		if err := db.Create(batch.rows).Error; err != nil {
			m.logger.Error("Failed to seed catalog", map[string]any{
				"table": table,
				"error": err.Error(),
			})
			return fmt.Errorf("seed %s: %w", table, err)
		}
	}

	// Explicit ids leave the serial sequences behind
	for _, table := range []string{"cards", "boosters", "achievements"} {
		stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table)
		if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			m.logger.Warn("Failed to advance id sequence", map[string]any{
				"table": table,
				"error": err.Error(),
			})
		}
	}

	m.logger.Info("Catalog seeded", map[string]any{
		"cards":        len(cards),
		"boosters":     len(boosters),
		"achievements": len(achievements),
	})
	return nil
}
