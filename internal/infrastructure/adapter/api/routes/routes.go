package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Economy     *handler.EconomyHandler
	Marketplace *handler.MarketplaceHandler
	Achievement *handler.AchievementHandler
	Health      *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	api := router.Group("/", middleware.RequireAccount())

	// POST /accounts
	api.POST("/accounts", handlers.Economy.RegisterAccount)

	me := api.Group("/accounts/me")
	{
		me.GET("", handlers.Economy.GetAccount)
		me.GET("/inventory", handlers.Economy.ListInventory)
		me.PUT("/inventory/:cardId/favorite", handlers.Economy.SetFavorite)
		me.GET("/notifications", handlers.Economy.ListNotifications)
		me.POST("/notifications/:notificationId/claim", handlers.Economy.ClaimNotification)
	}

	// POST /boosters/{boosterId}/open, POST /boosters/{boosterId}/buy
	api.POST("/boosters/:boosterId/open", handlers.Economy.OpenBooster)
	api.POST("/boosters/:boosterId/buy", handlers.Economy.BuyBooster)

	// POST /cards/{cardId}/sell
	api.POST("/cards/:cardId/sell", handlers.Economy.SellCard)

	// POST /rewards/daily/claim
	api.POST("/rewards/daily/claim", handlers.Economy.ClaimDaily)

	listings := api.Group("/listings")
	{
		listings.GET("", handlers.Marketplace.ListActive)
		listings.POST("", handlers.Marketplace.CreateListing)
		listings.POST("/:listingId/purchase", handlers.Marketplace.PurchaseListing)
		listings.DELETE("/:listingId", handlers.Marketplace.CancelListing)
	}

	achievements := api.Group("/achievements")
	{
		achievements.GET("", handlers.Achievement.ListProgress)
		achievements.POST("/recompute", handlers.Achievement.Recompute)
		achievements.POST("/:achievementId/claim", handlers.Achievement.Claim)
	}
}

// SetupMetrics exposes the Prometheus registry on path
func SetupMetrics(router *gin.Engine, path string, metricsHandler http.Handler) {
	router.GET(path, gin.WrapH(metricsHandler))
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, recorder middleware.RequestRecorder) {
	// Request ids first so every later middleware can log them
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
	if recorder != nil {
		router.Use(middleware.Metrics(recorder))
	}
}
