package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/model"
)

// InventoryRepository stores card quantities per account
type InventoryRepository struct {
	base
}

// NewInventoryRepository creates a new InventoryRepository instance
func NewInventoryRepository(db *gorm.DB, logger coreport.Logger) *InventoryRepository {
	return &InventoryRepository{base: newBase(db, logger)}
}

var _ persistence.InventoryRepository = (*InventoryRepository)(nil)

func inventoryToEntity(m *model.InventoryEntry) entity.InventoryEntry {
	return entity.InventoryEntry{
		AccountID:       m.AccountID,
		CardID:          m.CardID,
		Quantity:        m.Quantity,
		Favorite:        m.Favorite,
		FirstAcquiredAt: m.FirstAcquiredAt,
		LastAcquiredAt:  m.LastAcquiredAt,
	}
}

func (r *InventoryRepository) entry(ctx context.Context, accountID, cardID uint64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.InventoryEntry{}).
		Where("account_id = ? AND card_id = ?", accountID, cardID)
}

// Get returns the inventory entry of one card
func (r *InventoryRepository) Get(ctx context.Context, accountID, cardID uint64) (*entity.InventoryEntry, error) {
	var m model.InventoryEntry
	if err := r.entry(ctx, accountID, cardID).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("getting inventory entry", err, errs.ErrNotOwned, nil, map[string]any{
			"account_id": accountID,
			"card_id":    cardID,
		})
	}
	e := inventoryToEntity(&m)
	return &e, nil
}

// Add upserts the entry, incrementing the quantity of an existing one
func (r *InventoryRepository) Add(ctx context.Context, accountID, cardID uint64, quantity int, now time.Time) error {
	if quantity <= 0 {
		return errs.ErrInvalidQuantity
	}
	m := model.InventoryEntry{
		AccountID:       accountID,
		CardID:          cardID,
		Quantity:        quantity,
		FirstAcquiredAt: now,
		LastAcquiredAt:  now,
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "card_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":         gorm.Expr("inventory.quantity + EXCLUDED.quantity"),
			"last_acquired_at": now,
		}),
	}).Create(&m).Error
	if err != nil {
		return r.handleDatabaseError("adding card", err, nil, nil, map[string]any{
			"account_id": accountID,
			"card_id":    cardID,
			"quantity":   quantity,
		})
	}
	return nil
}

// Remove decrements the quantity when at least quantity+keep copies are held
func (r *InventoryRepository) Remove(ctx context.Context, accountID, cardID uint64, quantity, keep int) error {
	if quantity <= 0 || keep < 0 {
		return errs.ErrInvalidQuantity
	}
	result := r.entry(ctx, accountID, cardID).
		Where("quantity >= ?", quantity+keep).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return r.handleDatabaseError("removing card", result.Error, nil, nil, map[string]any{
			"account_id": accountID,
			"card_id":    cardID,
		})
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotOwned
	}
	return nil
}

// SetFavorite flags a held card
func (r *InventoryRepository) SetFavorite(ctx context.Context, accountID, cardID uint64, favorite bool) error {
	result := r.entry(ctx, accountID, cardID).Where("quantity > 0").Update("favorite", favorite)
	if result.Error != nil {
		return r.handleDatabaseError("setting favorite", result.Error, nil, nil, map[string]any{
			"account_id": accountID,
			"card_id":    cardID,
		})
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotOwned
	}
	return nil
}

// ListByAccount returns held cards joined with their definitions
func (r *InventoryRepository) ListByAccount(ctx context.Context, accountID uint64) ([]entity.InventoryItem, error) {
	var rows []model.InventoryEntry
	err := r.db.WithContext(ctx).Preload("Card").
		Where("account_id = ? AND quantity > 0", accountID).
		Order("card_id").
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("listing inventory", err, nil, nil, map[string]any{"account_id": accountID})
	}
	items := make([]entity.InventoryItem, 0, len(rows))
	for i := range rows {
		items = append(items, entity.InventoryItem{
			InventoryEntry: inventoryToEntity(&rows[i]),
			Card:           cardToEntity(&rows[i].Card),
		})
	}
	return items, nil
}

// CountDistinct counts distinct held cards
func (r *InventoryRepository) CountDistinct(ctx context.Context, accountID uint64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.InventoryEntry{}).
		Where("account_id = ? AND quantity > 0", accountID).
		Count(&count).Error
	if err != nil {
		return 0, r.handleDatabaseError("counting distinct cards", err, nil, nil, map[string]any{"account_id": accountID})
	}
	return int(count), nil
}

// CountDistinctInScope counts distinct held cards of one pack
func (r *InventoryRepository) CountDistinctInScope(ctx context.Context, accountID uint64, scopeID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.InventoryEntry{}).
		Joins("JOIN cards ON cards.id = inventory.card_id").
		Where("inventory.account_id = ? AND inventory.quantity > 0 AND cards.scope_id = ?", accountID, scopeID).
		Count(&count).Error
	if err != nil {
		return 0, r.handleDatabaseError("counting distinct cards in scope", err, nil, nil, map[string]any{
			"account_id": accountID,
			"scope_id":   scopeID,
		})
	}
	return int(count), nil
}
