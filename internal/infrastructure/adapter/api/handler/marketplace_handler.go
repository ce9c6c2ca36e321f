package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/dto"
)

// MarketplaceHandler handles listing requests
type MarketplaceHandler struct {
	marketplace     usecase.MarketplaceUseCase
	logger          coreport.Logger
	defaultPageSize int
}

// NewMarketplaceHandler creates a new marketplace handler instance
func NewMarketplaceHandler(marketplace usecase.MarketplaceUseCase, logger coreport.Logger, defaultPageSize int) *MarketplaceHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &MarketplaceHandler{
		marketplace:     marketplace,
		logger:          logger,
		defaultPageSize: defaultPageSize,
	}
}

// CreateListing handles POST /listings
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.marketplace.Create(c.Request.Context(), accountID(c), req.CardID, req.Price)
	if err != nil {
		respondError(c, h.logger, "create_listing", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewListingResponse(listing))
}

// ListActive handles GET /listings
func (h *MarketplaceHandler) ListActive(c *gin.Context) {
	var query dto.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	filter := entity.ListingFilter{CardID: query.CardID, SellerID: query.SellerID}
	if query.Rarity != "" {
		rarity, err := entity.ParseRarity(query.Rarity)
		if err != nil {
			badRequest(c, err)
			return
		}
		filter.Rarity = rarity
	}
	page := max(query.Page, 1)
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = h.defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	listings, err := h.marketplace.ListActive(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "list_listings", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListingPageResponse(listings, page, pageSize))
}

// PurchaseListing handles POST /listings/:listingId/purchase
func (h *MarketplaceHandler) PurchaseListing(c *gin.Context) {
	listingID, ok := parseIDParam(c, "listingId")
	if !ok {
		return
	}

	result, err := h.marketplace.Purchase(c.Request.Context(), listingID, accountID(c))
	if err != nil {
		respondError(c, h.logger, "purchase_listing", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPurchaseResponse(result))
}

// CancelListing handles DELETE /listings/:listingId
func (h *MarketplaceHandler) CancelListing(c *gin.Context) {
	listingID, ok := parseIDParam(c, "listingId")
	if !ok {
		return
	}

	listing, err := h.marketplace.Cancel(c.Request.Context(), listingID, accountID(c))
	if err != nil {
		respondError(c, h.logger, "cancel_listing", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListingResponse(listing))
}
