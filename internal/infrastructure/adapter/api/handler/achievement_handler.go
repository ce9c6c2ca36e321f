package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/dto"
)

// AchievementHandler handles achievement progress and claim requests
type AchievementHandler struct {
	achievements usecase.AchievementUseCase
	logger       coreport.Logger
}

// NewAchievementHandler creates a new achievement handler instance
func NewAchievementHandler(achievements usecase.AchievementUseCase, logger coreport.Logger) *AchievementHandler {
	return &AchievementHandler{
		achievements: achievements,
		logger:       logger,
	}
}

// ListProgress handles GET /achievements
func (h *AchievementHandler) ListProgress(c *gin.Context) {
	statuses, err := h.achievements.ListProgress(c.Request.Context(), accountID(c))
	if err != nil {
		respondError(c, h.logger, "list_achievements", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAchievementsResponse(statuses))
}

// Recompute handles POST /achievements/recompute. The body is optional.
func (h *AchievementHandler) Recompute(c *gin.Context) {
	var req dto.RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	if err := h.achievements.Recompute(c.Request.Context(), accountID(c), req.ScopeID); err != nil {
		respondError(c, h.logger, "recompute_achievements", err)
		return
	}
	h.ListProgress(c)
}

// Claim handles POST /achievements/:achievementId/claim
func (h *AchievementHandler) Claim(c *gin.Context) {
	achievementID, ok := parseIDParam(c, "achievementId")
	if !ok {
		return
	}

	result, err := h.achievements.Claim(c.Request.Context(), accountID(c), achievementID)
	if err != nil {
		respondError(c, h.logger, "claim_achievement", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewClaimResponse(result))
}
