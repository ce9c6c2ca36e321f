package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/model"
)

func cardToEntity(m *model.Card) entity.Card {
	return entity.Card{
		ID:        m.ID,
		Name:      m.Name,
		Rarity:    entity.Rarity(m.Rarity),
		Alternate: m.Alternate,
		ScopeID:   m.ScopeID,
		Active:    m.Active,
	}
}

// CardRepository reads the card catalog
type CardRepository struct {
	base
}

// NewCardRepository creates a new CardRepository instance
func NewCardRepository(db *gorm.DB, logger coreport.Logger) *CardRepository {
	return &CardRepository{base: newBase(db, logger)}
}

var _ persistence.CardRepository = (*CardRepository)(nil)

// GetByID retrieves a card by ID
func (r *CardRepository) GetByID(ctx context.Context, id uint64) (*entity.Card, error) {
	var m model.Card
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting card", err, errs.ErrCardNotFound, nil, map[string]any{"card_id": id})
	}
	card := cardToEntity(&m)
	return &card, nil
}

// ListActive returns every active card ordered by ID
func (r *CardRepository) ListActive(ctx context.Context) ([]entity.Card, error) {
	var rows []model.Card
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("listing active cards", err, nil, nil, nil)
	}
	cards := make([]entity.Card, 0, len(rows))
	for i := range rows {
		cards = append(cards, cardToEntity(&rows[i]))
	}
	return cards, nil
}

// BoosterRepository reads booster definitions and appends opening records
type BoosterRepository struct {
	base
}

// NewBoosterRepository creates a new BoosterRepository instance
func NewBoosterRepository(db *gorm.DB, logger coreport.Logger) *BoosterRepository {
	return &BoosterRepository{base: newBase(db, logger)}
}

var _ persistence.BoosterRepository = (*BoosterRepository)(nil)

// GetByID retrieves a booster by ID
func (r *BoosterRepository) GetByID(ctx context.Context, id uint64) (*entity.Booster, error) {
	var m model.Booster
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting booster", err, errs.ErrBoosterNotFound, nil, map[string]any{"booster_id": id})
	}
	return &entity.Booster{
		ID:      m.ID,
		Name:    m.Name,
		ScopeID: m.ScopeID,
		Price:   m.Price,
		Active:  m.Active,
	}, nil
}

// RecordOpening appends an opening record
func (r *BoosterRepository) RecordOpening(ctx context.Context, opening *entity.BoosterOpening) error {
	m := model.BoosterOpening{
		ID:        opening.ID,
		AccountID: opening.AccountID,
		BoosterID: opening.BoosterID,
		CardIDs:   opening.CardIDs,
		Source:    string(opening.Source),
		OpenedAt:  opening.OpenedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("recording booster opening", err, nil, nil, map[string]any{
			"account_id": opening.AccountID,
			"booster_id": opening.BoosterID,
		})
	}
	return nil
}

// CountOpenings counts boosters opened by an account
func (r *BoosterRepository) CountOpenings(ctx context.Context, accountID uint64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BoosterOpening{}).Where("account_id = ?", accountID).Count(&count).Error
	if err != nil {
		return 0, r.handleDatabaseError("counting openings", err, nil, nil, map[string]any{"account_id": accountID})
	}
	return int(count), nil
}

// NotificationRepository reads account notifications
type NotificationRepository struct {
	base
}

// NewNotificationRepository creates a new NotificationRepository instance
func NewNotificationRepository(db *gorm.DB, logger coreport.Logger) *NotificationRepository {
	return &NotificationRepository{base: newBase(db, logger)}
}

var _ persistence.NotificationRepository = (*NotificationRepository)(nil)

func notificationToEntity(m *model.Notification) entity.Notification {
	return entity.Notification{
		ID:        m.ID,
		AccountID: m.AccountID,
		Title:     m.Title,
		Reward:    m.Reward,
		CreatedAt: m.CreatedAt,
	}
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id uint64) (*entity.Notification, error) {
	var m model.Notification
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting notification", err, errs.ErrNotificationNotFound, nil, map[string]any{
			"notification_id": id,
		})
	}
	n := notificationToEntity(&m)
	return &n, nil
}

// ListByAccount returns notifications newest first
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID uint64) ([]entity.Notification, error) {
	var rows []model.Notification
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("listing notifications", err, nil, nil, map[string]any{"account_id": accountID})
	}
	out := make([]entity.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, notificationToEntity(&rows[i]))
	}
	return out, nil
}

// Create stores a notification and assigns its ID
func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	m := model.Notification{
		AccountID: notification.AccountID,
		Title:     notification.Title,
		Reward:    notification.Reward,
		CreatedAt: notification.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating notification", err, nil, nil, map[string]any{
			"account_id": notification.AccountID,
		})
	}
	notification.ID = m.ID
	return nil
}
