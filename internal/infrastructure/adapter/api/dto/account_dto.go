package dto

import (
	"time"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
)

// AccountResponse represents the API response for an account
type AccountResponse struct {
	AccountID                uint64     `json:"accountId"`
	Balance                  int64      `json:"balance"`
	AvailableBoosters        int        `json:"availableBoosters"`
	NextBoosterAt            *time.Time `json:"nextBoosterAt,omitempty"`
	SecondsToNextBooster     int64      `json:"secondsToNextBooster"`
	DailyRewardAvailableAt   *time.Time `json:"dailyRewardAvailableAt,omitempty"`
	LastDailyRewardClaimedAt *time.Time `json:"lastDailyRewardClaimedAt,omitempty"`
}

// NewAccountResponse builds the response for a freshly read account
func NewAccountResponse(view *usecase.AccountView) AccountResponse {
	resp := AccountResponse{
		AccountID:                view.Account.ID,
		Balance:                  view.Account.Balance,
		AvailableBoosters:        view.Account.AvailableBoosters,
		NextBoosterAt:            view.Account.NextBoosterAt,
		SecondsToNextBooster:     int64(view.TimeToNextBooster.Seconds()),
		LastDailyRewardClaimedAt: view.Account.LastDailyClaimAt,
	}
	if !view.DailyAvailableAt.IsZero() {
		at := view.DailyAvailableAt
		resp.DailyRewardAvailableAt = &at
	}
	return resp
}

// CardResponse represents a catalog card
type CardResponse struct {
	CardID    uint64 `json:"cardId"`
	Name      string `json:"name"`
	Rarity    string `json:"rarity"`
	Alternate bool   `json:"alternate"`
	ScopeID   string `json:"scopeId,omitempty"`
}

// NewCardResponse converts a catalog card
func NewCardResponse(card entity.Card) CardResponse {
	return CardResponse{
		CardID:    card.ID,
		Name:      card.Name,
		Rarity:    card.Rarity.String(),
		Alternate: card.Alternate,
		ScopeID:   card.ScopeID,
	}
}

// InventoryItemResponse represents one held card
type InventoryItemResponse struct {
	Card            CardResponse `json:"card"`
	Quantity        int          `json:"quantity"`
	Favorite        bool         `json:"favorite"`
	FirstAcquiredAt time.Time    `json:"firstAcquiredAt"`
	LastAcquiredAt  time.Time    `json:"lastAcquiredAt"`
}

// NewInventoryResponse converts an inventory listing
func NewInventoryResponse(items []entity.InventoryItem) []InventoryItemResponse {
	resp := make([]InventoryItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, InventoryItemResponse{
			Card:            NewCardResponse(item.Card),
			Quantity:        item.Quantity,
			Favorite:        item.Favorite,
			FirstAcquiredAt: item.FirstAcquiredAt,
			LastAcquiredAt:  item.LastAcquiredAt,
		})
	}
	return resp
}

// FavoriteRequest represents the API request for toggling a favorite
type FavoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

// OpeningResponse represents an opened booster
type OpeningResponse struct {
	OpeningID         string         `json:"openingId"`
	BoosterID         uint64         `json:"boosterId"`
	Source            string         `json:"source"`
	Cards             []CardResponse `json:"cards"`
	Balance           int64          `json:"balance"`
	AvailableBoosters int            `json:"availableBoosters"`
	NextBoosterAt     *time.Time     `json:"nextBoosterAt,omitempty"`
	OpenedAt          time.Time      `json:"openedAt"`
}

// NewOpeningResponse converts an opening result
func NewOpeningResponse(result *usecase.OpeningResult) OpeningResponse {
	cards := make([]CardResponse, 0, len(result.Cards))
	for _, card := range result.Cards {
		cards = append(cards, NewCardResponse(card))
	}
	return OpeningResponse{
		OpeningID:         result.Opening.ID,
		BoosterID:         result.Opening.BoosterID,
		Source:            string(result.Opening.Source),
		Cards:             cards,
		Balance:           result.Balance,
		AvailableBoosters: result.AvailableBoosters,
		NextBoosterAt:     result.NextBoosterAt,
		OpenedAt:          result.Opening.OpenedAt,
	}
}

// SellRequest represents the API request for selling cards back
type SellRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// SaleResponse represents a completed sale
type SaleResponse struct {
	CardID    uint64 `json:"cardId"`
	Quantity  int    `json:"quantity"`
	Proceeds  int64  `json:"proceeds"`
	Balance   int64  `json:"balance"`
	Remaining int    `json:"remaining"`
}

// NewSaleResponse converts a sale result
func NewSaleResponse(result *usecase.SaleResult) SaleResponse {
	return SaleResponse{
		CardID:    result.CardID,
		Quantity:  result.Quantity,
		Proceeds:  result.Proceeds,
		Balance:   result.Balance,
		Remaining: result.Remaining,
	}
}

// ClaimResponse represents a credited reward
type ClaimResponse struct {
	RewardType string `json:"rewardType"`
	RewardKey  string `json:"rewardKey"`
	Amount     int64  `json:"amount"`
	Balance    int64  `json:"balance"`
}

// NewClaimResponse converts a claim result
func NewClaimResponse(result *usecase.ClaimResult) ClaimResponse {
	return ClaimResponse{
		RewardType: string(result.RewardType),
		RewardKey:  result.RewardKey,
		Amount:     result.Amount,
		Balance:    result.Balance,
	}
}

// NotificationResponse represents one notification
type NotificationResponse struct {
	NotificationID uint64    `json:"notificationId"`
	Title          string    `json:"title"`
	Reward         int64     `json:"reward"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewNotificationsResponse converts a notification list
func NewNotificationsResponse(notifications []entity.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, NotificationResponse{
			NotificationID: n.ID,
			Title:          n.Title,
			Reward:         n.Reward,
			CreatedAt:      n.CreatedAt,
		})
	}
	return resp
}
