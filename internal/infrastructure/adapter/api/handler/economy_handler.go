package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/dto"
)

// EconomyHandler handles account, booster, card and reward requests
type EconomyHandler struct {
	economy usecase.EconomyUseCase
	logger  coreport.Logger
}

// NewEconomyHandler creates a new economy handler instance
func NewEconomyHandler(economy usecase.EconomyUseCase, logger coreport.Logger) *EconomyHandler {
	return &EconomyHandler{
		economy: economy,
		logger:  logger,
	}
}

// RegisterAccount handles POST /accounts
func (h *EconomyHandler) RegisterAccount(c *gin.Context) {
	if _, err := h.economy.RegisterAccount(c.Request.Context(), accountID(c)); err != nil {
		respondError(c, h.logger, "register_account", err)
		return
	}

	view, err := h.economy.GetAccount(c.Request.Context(), accountID(c))
	if err != nil {
		respondError(c, h.logger, "register_account", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAccountResponse(view))
}

// GetAccount handles GET /accounts/me
func (h *EconomyHandler) GetAccount(c *gin.Context) {
	view, err := h.economy.GetAccount(c.Request.Context(), accountID(c))
	if err != nil {
		respondError(c, h.logger, "get_account", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAccountResponse(view))
}

// ListInventory handles GET /accounts/me/inventory
func (h *EconomyHandler) ListInventory(c *gin.Context) {
	items, err := h.economy.ListInventory(c.Request.Context(), accountID(c))
	if err != nil {
		respondError(c, h.logger, "list_inventory", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInventoryResponse(items))
}

// SetFavorite handles PUT /accounts/me/inventory/:cardId/favorite
func (h *EconomyHandler) SetFavorite(c *gin.Context) {
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		return
	}
	var req dto.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.economy.SetFavorite(c.Request.Context(), accountID(c), cardID, *req.Favorite); err != nil {
		respondError(c, h.logger, "set_favorite", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListNotifications handles GET /accounts/me/notifications
func (h *EconomyHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.economy.ListNotifications(c.Request.Context(), accountID(c))
	if err != nil {
		respondError(c, h.logger, "list_notifications", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewNotificationsResponse(notifications))
}

// ClaimNotification handles POST /accounts/me/notifications/:notificationId/claim
func (h *EconomyHandler) ClaimNotification(c *gin.Context) {
	notificationID, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}

	result, err := h.economy.ClaimNotificationReward(c.Request.Context(), accountID(c), notificationID)
	if err != nil {
		respondError(c, h.logger, "claim_notification", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewClaimResponse(result))
}

// ClaimDaily handles POST /rewards/daily/claim
func (h *EconomyHandler) ClaimDaily(c *gin.Context) {
	result, err := h.economy.ClaimDailyReward(c.Request.Context(), accountID(c))
	if err != nil {
		respondError(c, h.logger, "claim_daily", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewClaimResponse(result))
}

// OpenBooster handles POST /boosters/:boosterId/open
func (h *EconomyHandler) OpenBooster(c *gin.Context) {
	boosterID, ok := parseIDParam(c, "boosterId")
	if !ok {
		return
	}

	result, err := h.economy.OpenBooster(c.Request.Context(), accountID(c), boosterID)
	if err != nil {
		respondError(c, h.logger, "open_booster", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOpeningResponse(result))
}

// BuyBooster handles POST /boosters/:boosterId/buy
func (h *EconomyHandler) BuyBooster(c *gin.Context) {
	boosterID, ok := parseIDParam(c, "boosterId")
	if !ok {
		return
	}

	result, err := h.economy.BuyBooster(c.Request.Context(), accountID(c), boosterID)
	if err != nil {
		respondError(c, h.logger, "buy_booster", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOpeningResponse(result))
}

// SellCard handles POST /cards/:cardId/sell
func (h *EconomyHandler) SellCard(c *gin.Context) {
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		return
	}
	var req dto.SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.economy.SellCard(c.Request.Context(), accountID(c), cardID, req.Quantity)
	if err != nil {
		respondError(c, h.logger, "sell_card", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSaleResponse(result))
}
